package pagination

import "testing"

func TestWindow(t *testing.T) {
	items := make([]int, 12)
	for i := range items {
		items[i] = i
	}

	cases := []struct {
		name     string
		page     int
		wantLen  int
		wantMore bool
		wantNext int
	}{
		{"first page", 1, 5, true, 2},
		{"middle page", 2, 5, true, 3},
		{"last partial page", 3, 2, false, 0},
		{"out of range", 9, 0, false, 0},
		{"page zero clamps to one", 0, 5, true, 2},
		{"negative page clamps to one", -3, 5, true, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Window(items, tc.page, 5)
			if len(got.Items) != tc.wantLen {
				t.Fatalf("items: want %d got %d", tc.wantLen, len(got.Items))
			}
			if got.Total != 12 {
				t.Fatalf("total must be pre-truncation size, got %d", got.Total)
			}
			if got.HasMore != tc.wantMore || got.Next != tc.wantNext {
				t.Fatalf("continuation: want (%v,%d) got (%v,%d)", tc.wantMore, tc.wantNext, got.HasMore, got.Next)
			}
		})
	}
}

func TestWindow_ExactMultiple(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	got := Window(items, 2, 5)
	if len(got.Items) != 5 || got.HasMore {
		t.Fatalf("last full page must not advertise continuation: len=%d more=%v", len(got.Items), got.HasMore)
	}
}

func TestWindow_Empty(t *testing.T) {
	got := Window([]string{}, 1, 5)
	if len(got.Items) != 0 || got.Total != 0 || got.HasMore {
		t.Fatalf("empty input: %+v", got)
	}
	if got.Items == nil {
		t.Fatal("items must serialize as [], not null")
	}
}

func TestWindow_DefaultsSize(t *testing.T) {
	items := make([]int, 7)
	got := Window(items, 1, 0)
	if len(got.Items) != DefaultPageSize {
		t.Fatalf("size 0 must fall back to default, got %d", len(got.Items))
	}
}

func TestParsePage(t *testing.T) {
	cases := map[string]int{
		"":       1,
		"1":      1,
		"3":      3,
		"0":      1,
		"-2":     1,
		"banana": 1,
		"2.5":    1,
	}
	for raw, want := range cases {
		if got := ParsePage(raw); got != want {
			t.Errorf("ParsePage(%q) = %d, want %d", raw, got, want)
		}
	}
}
