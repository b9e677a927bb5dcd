package token

import "rosgen/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaBlankLine
	TriviaComment
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaBlankLine:
		return "BlankLine"
	case TriviaComment:
		return "Comment"
	}
	return "Unknown"
}

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// CommentText strips the leading '#' and one following space.
func (t Trivia) CommentText() string {
	if t.Kind != TriviaComment {
		return ""
	}
	s := t.Text
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) > 0 && s[0] == ' ' {
		s = s[1:]
	}
	return s
}
