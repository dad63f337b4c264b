package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ontoenv/internal/core/domain"
)

func TestNormalizeURI(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    domain.OntologyURI
		wantErr bool
	}{
		{name: "Plain", raw: "http://example.org/onto", want: "http://example.org/onto"},
		{name: "Angle Brackets", raw: " <http://example.org/onto> ", want: "http://example.org/onto"},
		{name: "Scheme And Host Lowercased", raw: "HTTP://Example.ORG/Onto", want: "http://example.org/Onto"},
		{name: "Empty Fragment Dropped", raw: "http://example.org/onto#", want: "http://example.org/onto"},
		{name: "Fragment Kept", raw: "http://example.org/onto#Thing", want: "http://example.org/onto#Thing"},
		{name: "URN", raw: "urn:c", want: "urn:c"},
		{name: "Relative", raw: "onto.ttl", wantErr: true},
		{name: "Empty", raw: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.NormalizeURI(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), domain.ErrInvalidURI.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOntologyURI_Schemes(t *testing.T) {
	assert.True(t, domain.OntologyURI("https://example.org/a").IsHTTP())
	assert.False(t, domain.OntologyURI("urn:a").IsHTTP())

	u := domain.OntologyURI("file:///data/onto.ttl")
	assert.True(t, u.IsFile())
	path, ok := u.FilePath()
	assert.True(t, ok)
	assert.Equal(t, "/data/onto.ttl", path)

	_, ok = domain.OntologyURI("http://example.org/a").FilePath()
	assert.False(t, ok)

	dir := t.TempDir()
	local := domain.FileURI(filepath.Join(dir, "my onto.ttl"))
	assert.True(t, local.IsFile())
	path, ok = local.FilePath()
	assert.True(t, ok)
	assert.Equal(t, filepath.ToSlash(filepath.Join(dir, "my onto.ttl")), path)
	assert.NotContains(t, local.String(), " ")
}

func TestURISet(t *testing.T) {
	s := domain.NewURISet("urn:b", "urn:a", "urn:b")

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Add("urn:c"))
	assert.False(t, s.Add("urn:a"))
	assert.True(t, s.Has("urn:c"))
	assert.Equal(t, []domain.OntologyURI{"urn:b", "urn:a", "urn:c"}, s.Slice())

	var zero domain.URISet
	assert.True(t, zero.Add("urn:x"))
}
