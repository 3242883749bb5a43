package importer

import (
	"context"

	"github.com/dailyyoga/menuhub/cron"
	"go.uber.org/zap"
)

// ChainName is the name of the scheduled import chain
const ChainName = "catalog-sync"

const documentKey = "importer:document"

// Chain returns the scheduled import: check-file parses the file when it
// changed and ends the run otherwise, import rebuilds the catalog from the
// parsed document
func (j *Job) Chain() cron.Chain {
	return cron.Chain{
		Name: ChainName,
		Spec: j.cfg.Spec,
		Tasks: []cron.Task{
			cron.NewTask("check-file", j.checkFile),
			cron.NewTask("import", j.importTask),
		},
	}
}

func (j *Job) checkFile(ctx context.Context) error {
	modified, err := j.IsModified()
	if err != nil {
		return err
	}
	if !modified {
		return cron.ErrSkipChain
	}
	doc, err := ReadFile(j.cfg.Path, j.cfg.Sheet)
	if err != nil {
		return err
	}
	cron.Store(ctx, documentKey, doc)
	return nil
}

func (j *Job) importTask(ctx context.Context) error {
	doc, ok := cron.Load[Document](ctx, documentKey)
	if !ok {
		return ErrNoDocument
	}
	res, err := j.Import(ctx, doc)
	if err != nil {
		return err
	}
	j.log.Debug("scheduled import finished", zap.Bool("skipped", res.Skipped))
	return nil
}
