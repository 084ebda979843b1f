package entity

import (
	"bytes"

	"github.com/cyraxred/neodepends/internal/model"
)

// toSingletonSet builds a Set containing only the synthetic File entity
// covering the whole of content. end position math follows the original:
// if the content ends in any text, the end row/column is the length of its
// last line; an empty file ends at (0, 0).
func toSingletonSet(filename string, content []byte) Set {
	endRow, endCol := 0, 0
	if len(content) > 0 {
		lines := bytes.SplitAfter(content, []byte("\n"))
		// SplitAfter on a string ending in "\n" yields a trailing empty
		// slice; drop it so "last line" really means the last line of text.
		if len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
			lines = lines[:len(lines)-1]
		}
		endRow = len(lines) - 1
		endCol = len(lines[len(lines)-1])
	}

	span := model.Span{
		Start: model.Position{Byte: 0, Row: 0, Column: 0},
		End:   model.Position{Byte: len(content), Row: endRow, Column: endCol},
	}

	simpleId := model.NewSimpleId(nil, filename, model.KindFile)
	contentId := model.ContentIdFromBytes(content)
	entityId := model.NewEntityId(nil, filename, model.KindFile, span, contentId, simpleId)

	entity := model.Entity{
		Id:        entityId,
		Name:      filename,
		Kind:      model.KindFile,
		Span:      span,
		ContentId: contentId,
		SimpleId:  simpleId,
	}

	return fromTopo([]model.Entity{entity})
}
