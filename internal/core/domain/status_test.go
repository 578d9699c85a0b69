package domain

import "testing"

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"IN_PROGRESS", StatusLive},
		{"in_progress", StatusLive},
		{"PLANNING", StatusLive},
		{"COMPLETED", StatusClosed},
		{" on_hold ", StatusOnHold},
		{"CANCELLED", StatusCancelled},
		{"On-Hold", "On-Hold"},
		{"Sent for Fabrication", "Sent for Fabrication"},
		{"weird_status", "weird_status"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeStatus(tc.in); got != tc.want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClassifyStatus(t *testing.T) {
	if label, known := ClassifyStatus("COMPLETED"); label != StatusClosed || !known {
		t.Fatalf("expected Closed/known, got %q/%v", label, known)
	}
	if label, known := ClassifyStatus("See Remarks"); label != StatusSeeRemarks || !known {
		t.Fatalf("expected canonical pass-through, got %q/%v", label, known)
	}
	if label, known := ClassifyStatus("weird_status"); label != "weird_status" || known {
		t.Fatalf("expected unknown pass-through, got %q/%v", label, known)
	}
}

func TestIsActiveStatus(t *testing.T) {
	active := []string{"Live", "live", "  LIVE ", "in progress", "In   Progress", "IN_PROGRESS", "active", "Active", "PLANNING"}
	for _, s := range active {
		if !IsActiveStatus(s) {
			t.Errorf("expected %q to be active", s)
		}
	}
	inactive := []string{"", "Closed", "On-Hold", "inactive", "Sent For Approval", "COMPLETED"}
	for _, s := range inactive {
		if IsActiveStatus(s) {
			t.Errorf("expected %q to be inactive", s)
		}
	}
}

func TestIsNearCompletion(t *testing.T) {
	for _, s := range []string{"Near Completion", "near_completion", "NEARCOMPLETION", "nearly completion"} {
		if !IsNearCompletion(s) {
			t.Errorf("expected %q to be near completion", s)
		}
	}
	if IsNearCompletion("Live") {
		t.Fatalf("Live is not near completion")
	}
}
