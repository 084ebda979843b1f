package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyraxred/neodepends/internal/lang"
	"github.com/cyraxred/neodepends/internal/model"
)

const javaA = `class A {
    void run() {
        B b;
    }
}
`

const javaB = `class B {
}
`

func TestGraphFactoryRejectsLanguageWithoutTagQuery(t *testing.T) {
	f := NewGraphFactory()
	_, ok := f.New(model.WorkDir(), lang.JavaScript)
	assert.False(t, ok)
}

func TestGraphResolverResolvesCrossFileReference(t *testing.T) {
	f := NewGraphFactory()
	r, ok := f.New(model.WorkDir(), lang.Java)
	require.True(t, ok)

	r.AddFile("A.java", []byte(javaA))
	r.AddFile("B.java", []byte(javaB))

	deps, err := r.Resolve()
	require.NoError(t, err)

	var found bool
	for _, d := range deps {
		if d.Src.Filename == "A.java" && d.Tgt.Filename == "B.java" {
			found = true
			assert.Equal(t, model.DepUse, d.Kind)
		}
	}
	assert.True(t, found, "expected a dep from A.java to B.java, got %+v", deps)
}

func TestGraphFactoryCachesPerFileGraph(t *testing.T) {
	f := NewGraphFactory()
	key := fileVersion{filename: "A.java", content: model.ContentIdFromBytes([]byte(javaA))}

	g1 := f.getOrBuild(key, lang.Java, []byte(javaA))
	g2 := f.getOrBuild(key, lang.Java, []byte(javaA))
	assert.Same(t, g1, g2)
}

func TestIsTighterPrefersSmallerSpan(t *testing.T) {
	small := model.Span{Start: model.Position{Byte: 10}, End: model.Position{Byte: 20}}
	big := model.Span{Start: model.Position{Byte: 0}, End: model.Position{Byte: 100}}
	assert.True(t, isTighter(small, big))
	assert.False(t, isTighter(big, small))
}
