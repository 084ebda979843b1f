package orchestrate

import (
	"context"

	"github.com/cyraxred/neodepends/internal/model"
)

// Contents yields one Content per distinct ContentId named anywhere in
// filespec.
func (o *Orchestrator) Contents(ctx context.Context, filespec model.Filespec) ([]model.Content, error) {
	multi, err := o.store.List(filespec)
	if err != nil {
		return nil, err
	}

	seen := make(map[model.ContentId]struct{})
	var ids []model.ContentId
	multi.ForEach(func(_ model.PseudoCommit, fs model.FileSet) {
		for _, key := range fs.Keys() {
			if _, ok := seen[key.ContentId]; ok {
				continue
			}
			seen[key.ContentId] = struct{}{}
			ids = append(ids, key.ContentId)
		}
	})

	out := make([]model.Content, len(ids))
	err = o.forEach(ctx, len(ids), func(i int) error {
		data, err := o.store.Read(ids[i])
		if err != nil {
			return err
		}
		out[i] = model.Content{Id: ids[i], Text: string(data)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
