package output

import "github.com/cyraxred/neodepends/internal/model"

// The row builders below produce the serde shapes shared by the JSONL writer:
// flat structs matching the field names in the data model rather than the
// nested Go types, so a parent-less Entity omits parent_id (via omitempty)
// instead of writing a zero EntityId.
type entityRowJSON struct {
	Id          string `json:"id"`
	ParentId    string `json:"parent_id,omitempty"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	StartByte   int    `json:"start_byte"`
	StartRow    int    `json:"start_row"`
	StartColumn int    `json:"start_column"`
	EndByte     int    `json:"end_byte"`
	EndRow      int    `json:"end_row"`
	EndColumn   int    `json:"end_column"`
	ContentId   string `json:"content_id"`
	SimpleId    string `json:"simple_id"`
}

func entityRow(e model.Entity) entityRowJSON {
	var parentId string
	if e.ParentId != nil {
		parentId = e.ParentId.String()
	}
	return entityRowJSON{
		Id:          e.Id.String(),
		ParentId:    parentId,
		Name:        e.Name,
		Kind:        e.Kind.String(),
		StartByte:   e.Span.Start.Byte,
		StartRow:    e.Span.Start.Row,
		StartColumn: e.Span.Start.Column,
		EndByte:     e.Span.End.Byte,
		EndRow:      e.Span.End.Row,
		EndColumn:   e.Span.End.Column,
		ContentId:   e.ContentId.String(),
		SimpleId:    e.SimpleId.String(),
	}
}

type entityDepRowJSON struct {
	Src      string `json:"src"`
	Tgt      string `json:"tgt"`
	Kind     string `json:"kind"`
	Row      int    `json:"row"`
	CommitId string `json:"commit_id"`
}

func entityDepRow(d model.EntityDep) entityDepRowJSON {
	return entityDepRowJSON{
		Src:      d.Src.String(),
		Tgt:      d.Tgt.String(),
		Kind:     d.Kind.String(),
		Row:      partialPositionRow(d.Position),
		CommitId: d.Commit.String(),
	}
}

type changeRowJSON struct {
	SimpleId string `json:"simple_id"`
	CommitId string `json:"commit_id"`
	Kind     string `json:"kind"`
	Adds     int    `json:"adds"`
	Dels     int    `json:"dels"`
}

func changeRow(c model.Change) changeRowJSON {
	return changeRowJSON{
		SimpleId: c.SimpleId.String(),
		CommitId: c.Commit.String(),
		Kind:     c.Kind.String(),
		Adds:     c.Adds,
		Dels:     c.Dels,
	}
}

type contentRowJSON struct {
	Id      string `json:"id"`
	Content string `json:"content"`
}

func contentRow(c model.Content) contentRowJSON {
	return contentRowJSON{Id: c.Id.String(), Content: c.Text}
}
