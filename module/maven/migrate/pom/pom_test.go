package pom

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const namespacedPom = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <modelVersion>4.0.0</modelVersion>
  <groupId>org.acme</groupId>
  <artifactId>lib</artifactId>
  <version>1.0</version>
  <url>http://old/site</url>
  <distributionManagement>
    <repository>
      <id>releases</id>
      <url>http://old/repo</url>
    </repository>
  </distributionManagement>
  <scm>
    <url>http://unmapped/scm</url>
  </scm>
</project>
`

func TestDescriptor_Namespace(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a.pom", []byte(namespacedPom), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/b.pom", []byte(`<project><url>x</url></project>`), 0o644))

	ns, err := Open(fs, "/a.pom").Namespace()
	require.NoError(t, err)
	assert.Equal(t, "http://maven.apache.org/POM/4.0.0", ns)

	ns, err = Open(fs, "/b.pom").Namespace()
	require.NoError(t, err)
	assert.Empty(t, ns)
}

func TestDescriptor_Replace(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/lib-1.0.pom", []byte(namespacedPom), 0o644))

	n, err := Open(fs, "/lib-1.0.pom").Replace(URLTag, map[string]string{
		"http://old/repo": "http://new/repo",
		"http://old/site": "http://new/site",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// a second descriptor re-reads the rewritten file
	reread := Open(fs, "/lib-1.0.pom")
	ns, err := reread.Namespace()
	require.NoError(t, err)
	assert.Equal(t, "http://maven.apache.org/POM/4.0.0", ns)

	data, err := afero.ReadFile(fs, "/lib-1.0.pom")
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `<project xmlns="http://maven.apache.org/POM/4.0.0"`)
	assert.NotContains(t, out, "ns0:")
	assert.Contains(t, out, "<url>http://new/repo</url>")
	assert.Contains(t, out, "<url>http://new/site</url>")
	assert.Contains(t, out, "<url>http://unmapped/scm</url>")
	assert.NotContains(t, out, "http://old/")
}

const prefixedPom = `<?xml version="1.0" encoding="UTF-8"?>
<p:project xmlns:p="http://maven.apache.org/POM/4.0.0">
  <p:url>http://old/repo</p:url>
  <x:url xmlns:x="urn:other">http://old/repo</x:url>
</p:project>
`

func TestDescriptor_ReplacePrefixedRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p.pom", []byte(prefixedPom), 0o644))

	d := Open(fs, "/p.pom")
	ns, err := d.Namespace()
	require.NoError(t, err)
	assert.Equal(t, "http://maven.apache.org/POM/4.0.0", ns)

	n, err := d.Replace(URLTag, map[string]string{"http://old/repo": "http://new/repo"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := afero.ReadFile(fs, "/p.pom")
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `<p:project xmlns:p="http://maven.apache.org/POM/4.0.0">`)
	assert.Contains(t, out, "<p:url>http://new/repo</p:url>")
	assert.Contains(t, out, `<x:url xmlns:x="urn:other">http://old/repo</x:url>`)
}

func TestDescriptor_ReplaceNoMatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p.pom", []byte(`<project><name>x</name></project>`), 0o644))

	n, err := Open(fs, "/p.pom").Replace(URLTag, map[string]string{"a": "b"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDescriptor_Invalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.pom", []byte(`<project attr=></project>`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/empty.pom", nil, 0o644))

	_, err := Open(fs, "/bad.pom").Replace(URLTag, nil)
	assert.Error(t, err)

	_, err = Open(fs, "/empty.pom").Replace(URLTag, nil)
	assert.Error(t, err)

	_, err = Open(fs, "/missing.pom").Namespace()
	assert.Error(t, err)
}
