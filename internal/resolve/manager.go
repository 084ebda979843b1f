package resolve

import (
	"time"

	"github.com/cyraxred/neodepends/internal/core"
	"github.com/cyraxred/neodepends/internal/lang"
	"github.com/cyraxred/neodepends/internal/model"
	"github.com/cyraxred/neodepends/internal/store"
)

// Recorder receives optional instrumentation from Manager.Resolve. It is
// satisfied by *metrics.Metrics without either package importing the
// other's concrete type.
type Recorder interface {
	ObserveResolve(resolver string, failed bool, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveResolve(string, bool, time.Duration) {}

// Manager owns a priority-ordered list of ResolverFactorys. Priority is
// simply declaration order: the CLI wires factories in the order its
// resolver-selection flags were given, and the first factory to accept a
// partition wins it.
type Manager struct {
	log       core.Logger
	factories []ResolverFactory
	recorder  Recorder
}

// NewManager builds a Manager trying factories in the given order.
func NewManager(log core.Logger, factories ...ResolverFactory) *Manager {
	return &Manager{log: log, factories: factories, recorder: nopRecorder{}}
}

// SetRecorder attaches an instrumentation sink. Passing nil restores the
// no-op default.
func (m *Manager) SetRecorder(r Recorder) {
	if r == nil {
		r = nopRecorder{}
	}
	m.recorder = r
}

// Resolve partitions keys by language, picks one resolver per partition, and
// loads each file exactly once through reader regardless of how many
// resolvers end up wanting it (there is in fact only ever one resolver per
// partition, since the first accepting factory wins, but sharing one load
// per file keeps the contract honest if a future factory wants to peek at
// more than one partition's files). Every returned dep's Commit is set to
// commit. A partition with no accepting factory, or whose resolver errors,
// is logged and contributes no deps.
func (m *Manager) Resolve(commit model.PseudoCommit, reader store.ContentReader, keys []model.FileKey) []model.FileDep {
	commitLog := m.log.WithFields(core.Field{Key: "commit", Value: commit})
	partitions := partitionByLang(keys)

	var all []model.FileDep
	for l, partKeys := range partitions {
		resolver, factory, ok := m.pick(commit, l)
		if !ok {
			continue
		}
		partLog := commitLog.WithFields(core.Field{Key: "lang", Value: l}, core.Field{Key: "resolver", Value: factory.Name()})

		for _, key := range partKeys {
			content, err := reader.Read(key.ContentId)
			if err != nil {
				partLog.Warnf("resolve: skipping %s: %v", key.Filename, err)
				continue
			}
			resolver.AddFile(key.Filename, content)
		}

		start := time.Now()
		deps, err := resolver.Resolve()
		m.recorder.ObserveResolve(factory.Name(), err != nil, time.Since(start))
		if err != nil {
			partLog.Warnf("resolve: partition failed: %v", err)
			continue
		}

		for i := range deps {
			deps[i].Commit = commit
		}
		all = append(all, deps...)
	}

	return all
}

func (m *Manager) pick(commit model.PseudoCommit, l lang.Lang) (Resolver, ResolverFactory, bool) {
	for _, f := range m.factories {
		if r, ok := f.New(commit, l); ok {
			return r, f, true
		}
	}
	return nil, nil, false
}

func partitionByLang(keys []model.FileKey) map[lang.Lang][]model.FileKey {
	out := make(map[lang.Lang][]model.FileKey)
	for _, k := range keys {
		l, ok := lang.Of(k.Filename)
		if !ok {
			continue
		}
		out[l] = append(out[l], k)
	}
	return out
}
