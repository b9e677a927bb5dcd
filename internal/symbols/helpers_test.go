package symbols

import "rosgen/internal/source"

func spanOf(file source.FileID) source.Span {
	return source.Span{File: file, Start: 0, End: 1}
}
