package types

import "testing"

func TestFeedbackSignal_Label(t *testing.T) {
	tests := []struct {
		name   string
		signal FeedbackSignal
		want   int
	}{
		{"interested is neutral", FeedbackSignal{Action: ActionInterested}, LabelNeutral},
		{"applied is neutral", FeedbackSignal{Action: ActionApplied}, LabelNeutral},
		{"passed is negative", FeedbackSignal{Action: ActionPassed}, LabelNegative},
		{
			"reached interview is positive",
			FeedbackSignal{Action: ActionInterviewOutcome, Outcome: StatusRejected, ReachedInterview: true},
			LabelPositive,
		},
		{
			"rejected without interview is negative",
			FeedbackSignal{Action: ActionInterviewOutcome, Outcome: StatusRejected},
			LabelNegative,
		},
		{
			"withdrawn without interview is neutral",
			FeedbackSignal{Action: ActionInterviewOutcome, Outcome: StatusWithdrawn},
			LabelNeutral,
		},
		{
			"accepted is positive",
			FeedbackSignal{Action: ActionInterviewOutcome, Outcome: StatusAccepted, ReachedInterview: true},
			LabelPositive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.signal.Label(); got != tt.want {
				t.Errorf("Label() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsTerminalStatus(t *testing.T) {
	for _, s := range []string{StatusAccepted, StatusRejected, StatusWithdrawn} {
		if !IsTerminalStatus(s) {
			t.Errorf("IsTerminalStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{StatusSaved, StatusApplied, StatusScreening, StatusInterview, StatusOffer} {
		if IsTerminalStatus(s) {
			t.Errorf("IsTerminalStatus(%q) = true, want false", s)
		}
	}
}
