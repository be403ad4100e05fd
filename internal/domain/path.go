package domain

import "errors"

// Level identifies one of the five taxonomy levels. Levels are ordered:
// a Path is valid when every present segment has all of its ancestors
// present as well.
type Level int

const (
	LevelSubject Level = iota
	LevelModule
	LevelChapter
	LevelSection
	LevelTopic
)

// levelNames is indexed by Level.
var levelNames = [...]string{"subject", "module", "chapter", "section", "topic"}

// ErrSubjectRequired is returned when a path is missing its subject segment.
var ErrSubjectRequired = errors.New("subject is required")

// String returns the lowercase name of the level.
func (l Level) String() string {
	if l < LevelSubject || l > LevelTopic {
		return "unknown"
	}
	return levelNames[l]
}

// Valid reports whether l is one of the five taxonomy levels.
func (l Level) Valid() bool {
	return l >= LevelSubject && l <= LevelTopic
}

// Path is the ordered (subject, module, chapter, section, topic) tuple that
// places a card in the taxonomy. Only subject is mandatory; deeper segments
// may be empty, representing partially-specified hierarchy nodes. There is
// no containment object for intermediate levels: a node's identity is the
// set of cards sharing its prefix.
type Path struct {
	Subject string `json:"subject"`
	Module  string `json:"module,omitempty"`
	Chapter string `json:"chapter,omitempty"`
	Section string `json:"section,omitempty"`
	Topic   string `json:"topic,omitempty"`
}

// Segment returns the value at the given level.
func (p Path) Segment(l Level) string {
	switch l {
	case LevelSubject:
		return p.Subject
	case LevelModule:
		return p.Module
	case LevelChapter:
		return p.Chapter
	case LevelSection:
		return p.Section
	case LevelTopic:
		return p.Topic
	}
	return ""
}

// WithSegment returns a copy of p with the segment at the given level
// replaced by value.
func (p Path) WithSegment(l Level, value string) Path {
	switch l {
	case LevelSubject:
		p.Subject = value
	case LevelModule:
		p.Module = value
	case LevelChapter:
		p.Chapter = value
	case LevelSection:
		p.Section = value
	case LevelTopic:
		p.Topic = value
	}
	return p
}

// Validate checks that the subject is present.
func (p Path) Validate() error {
	if p.Subject == "" {
		return ErrSubjectRequired
	}
	return nil
}

// MatchesThrough reports whether every segment of p up to and including the
// given level equals the corresponding segment of other. Segments deeper
// than level are ignored.
func (p Path) MatchesThrough(other Path, level Level) bool {
	for l := LevelSubject; l <= level; l++ {
		if p.Segment(l) != other.Segment(l) {
			return false
		}
	}
	return true
}
