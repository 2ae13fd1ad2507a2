package task

import (
	"errors"
	"testing"
)

func TestStatus_CanTransition(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:    {StatusInProgress, StatusCancelled},
		StatusInProgress: {StatusCompleted, StatusPending, StatusCancelled},
		StatusCompleted:  {},
		StatusCancelled:  {StatusPending},
	}

	for _, from := range Statuses {
		for _, to := range Statuses {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			if got := from.CanTransition(to); got != want {
				t.Errorf("%s -> %s: CanTransition() = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestStatus_CanTransitionUnknown(t *testing.T) {
	if Status("archived").CanTransition(StatusPending) {
		t.Error("unknown status should not transition")
	}
	if StatusPending.CanTransition(Status("archived")) {
		t.Error("transition to unknown status should be rejected")
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    Status
		wantErr bool
	}{
		{"pending", StatusPending, false},
		{"in_progress", StatusInProgress, false},
		{"completed", StatusCompleted, false},
		{"cancelled", StatusCancelled, false},
		{"done", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseStatus(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.raw, got, tt.want)
			}
			if err != nil {
				var ve *ValidationError
				if !errors.As(err, &ve) || ve.Field != "status" {
					t.Errorf("expected ValidationError on status, got %v", err)
				}
			}
		})
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		raw     string
		want    Priority
		wantErr bool
	}{
		{"", PriorityMedium, false},
		{"low", PriorityLow, false},
		{"critical", PriorityCritical, false},
		{"urgent", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePriority(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParsePriority(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParsePriority(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestStatus_Closed(t *testing.T) {
	for _, s := range Statuses {
		want := s == StatusCompleted || s == StatusCancelled
		if s.Closed() != want {
			t.Errorf("%s.Closed() = %v, want %v", s, s.Closed(), want)
		}
	}
}
