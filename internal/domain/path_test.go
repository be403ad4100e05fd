package domain

import "testing"

func TestLevelString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		level    Level
		expected string
	}{
		{LevelSubject, "subject"},
		{LevelModule, "module"},
		{LevelChapter, "chapter"},
		{LevelSection, "section"},
		{LevelTopic, "topic"},
		{Level(9), "unknown"},
	}

	for _, tc := range testCases {
		if got := tc.level.String(); got != tc.expected {
			t.Errorf("Level(%d).String() = %q, want %q", tc.level, got, tc.expected)
		}
	}
}

func TestPathSegmentRoundTrip(t *testing.T) {
	t.Parallel()
	p := Path{Subject: "Bio", Module: "Zoology", Chapter: "Cats", Section: "Anatomy", Topic: "Paws"}

	for l := LevelSubject; l <= LevelTopic; l++ {
		v := p.Segment(l)
		if v == "" {
			t.Errorf("Expected non-empty segment at %s", l)
		}
		if got := p.WithSegment(l, "X").Segment(l); got != "X" {
			t.Errorf("WithSegment(%s) did not replace segment, got %q", l, got)
		}
	}

	// WithSegment must not mutate the receiver.
	if p.Module != "Zoology" {
		t.Errorf("WithSegment mutated receiver: %+v", p)
	}
}

func TestPathMatchesThrough(t *testing.T) {
	t.Parallel()
	base := Path{Subject: "Bio", Module: "Zoology", Chapter: "Cats", Section: "Anatomy", Topic: "Paws"}

	testCases := []struct {
		name     string
		other    Path
		level    Level
		expected bool
	}{
		{
			name:     "same module different topic matches through module",
			other:    Path{Subject: "Bio", Module: "Zoology", Chapter: "Dogs"},
			level:    LevelModule,
			expected: true,
		},
		{
			name:     "different module does not match through module",
			other:    Path{Subject: "Bio", Module: "Botany"},
			level:    LevelModule,
			expected: false,
		},
		{
			name:     "different subject does not match at subject",
			other:    Path{Subject: "Chem", Module: "Zoology"},
			level:    LevelSubject,
			expected: false,
		},
		{
			name:     "full match through topic",
			other:    base,
			level:    LevelTopic,
			expected: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.MatchesThrough(tc.other, tc.level); got != tc.expected {
				t.Errorf("MatchesThrough(%+v, %s) = %v, want %v", tc.other, tc.level, got, tc.expected)
			}
		})
	}
}
