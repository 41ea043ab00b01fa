package types

import (
	"io"
	"strings"
	"sync"
)

const (
	FormatMaven2 = "maven2"
	TypeHosted   = "hosted"
	TypeGroup    = "group"
)

type VersionPolicy string

const (
	PolicyRelease  VersionPolicy = "RELEASE"
	PolicySnapshot VersionPolicy = "SNAPSHOT"
	PolicyMixed    VersionPolicy = "MIXED"
)

// RepositoryInfo is the listing record of a repository.
type RepositoryInfo struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	Type   string `json:"type"`
	URL    string `json:"url"`
	Online bool   `json:"online"`
}

// RepositoryDetail is the full repository configuration.
type RepositoryDetail struct {
	Name    string         `json:"name"`
	Format  string         `json:"format"`
	Type    string         `json:"type"`
	URL     string         `json:"url"`
	Online  bool           `json:"online"`
	Storage StorageConfig  `json:"storage"`
	Cleanup *CleanupConfig `json:"cleanup,omitempty"`
	Maven   *MavenPolicy   `json:"maven,omitempty"`
	Proxy   *ProxyConfig   `json:"proxy,omitempty"`
	Group   *GroupConfig   `json:"group,omitempty"`
}

type StorageConfig struct {
	BlobStoreName               string `json:"blobStoreName"`
	StrictContentTypeValidation bool   `json:"strictContentTypeValidation"`
	WritePolicy                 string `json:"writePolicy,omitempty"`
}

type CleanupConfig struct {
	PolicyNames []string `json:"policyNames"`
}

type MavenPolicy struct {
	VersionPolicy VersionPolicy `json:"versionPolicy"`
	LayoutPolicy  string        `json:"layoutPolicy"`
}

type ProxyConfig struct {
	RemoteURL string `json:"remoteUrl"`
}

type GroupConfig struct {
	MemberNames []string `json:"memberNames"`
}

type Checksum struct {
	MD5    string `json:"md5,omitempty"`
	SHA1   string `json:"sha1,omitempty"`
	SHA256 string `json:"sha256,omitempty"`
	SHA512 string `json:"sha512,omitempty"`
}

// AssetRecord is an asset as returned by the listing or detail endpoints.
type AssetRecord struct {
	ID          string   `json:"id"`
	Repository  string   `json:"repository"`
	Format      string   `json:"format"`
	Path        string   `json:"path"`
	DownloadURL string   `json:"downloadUrl"`
	Checksum    Checksum `json:"checksum"`
	FileSize    int64    `json:"fileSize"`
}

// Complete reports whether the record carries everything needed to transfer
// the asset without a detail lookup.
func (a AssetRecord) Complete() bool {
	return a.Path != "" && a.DownloadURL != "" && a.Checksum.MD5 != ""
}

// ComponentRecord is a component as returned by the listing or detail endpoints.
type ComponentRecord struct {
	ID         string        `json:"id"`
	Repository string        `json:"repository"`
	Format     string        `json:"format"`
	Group      string        `json:"group"`
	Name       string        `json:"name"`
	Version    string        `json:"version"`
	Assets     []AssetRecord `json:"assets"`
}

// ComponentPage is one page of the component listing.
type ComponentPage struct {
	Items             []ComponentRecord `json:"items"`
	ContinuationToken string            `json:"continuationToken"`
}

// FormPart is one multipart field. File parts carry an opener; the body is
// only read while the request is being written.
type FormPart struct {
	Name     string
	Value    string
	FileName string
	Open     func() (io.ReadCloser, error)
}

func (p FormPart) IsFile() bool {
	return p.Open != nil
}

// UploadForm is an ordered multipart upload.
type UploadForm struct {
	Parts []FormPart
}

func (f *UploadForm) AddField(name, value string) {
	f.Parts = append(f.Parts, FormPart{Name: name, Value: value})
}

func (f *UploadForm) AddFile(name, fileName string, open func() (io.ReadCloser, error)) {
	f.Parts = append(f.Parts, FormPart{Name: name, FileName: fileName, Open: open})
}

// Fields returns the form without file bodies, for logging.
func (f *UploadForm) Fields() map[string]string {
	fields := make(map[string]string, len(f.Parts))
	for _, p := range f.Parts {
		if p.IsFile() {
			fields[p.Name] = p.FileName
			continue
		}
		fields[p.Name] = p.Value
	}
	return fields
}

type Status string

const (
	StatusSuccess Status = "Success"
	StatusSkip    Status = "Skipped"
	StatusFail    Status = "Failed"
)

type ComponentStat struct {
	Name       string
	Repository string
	Version    string
	Assets     int
	Size       int64
	Status     Status
	Error      string
}

// TransferStats collects per component results from concurrent jobs.
type TransferStats struct {
	mu             sync.Mutex
	ComponentStats []ComponentStat
}

func (t *TransferStats) Add(stat ComponentStat) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ComponentStats = append(t.ComponentStats, stat)
}

func (t *TransferStats) Snapshot() []ComponentStat {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ComponentStat, len(t.ComponentStats))
	copy(out, t.ComponentStats)
	return out
}

// Count returns how many components ended with the given status.
func (t *TransferStats) Count(status Status) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, s := range t.ComponentStats {
		if s.Status == status {
			n++
		}
	}
	return n
}

// Coordinates identify a maven component.
type Coordinates struct {
	Group    string
	Artifact string
	Version  string
}

func (c Coordinates) String() string {
	return strings.Join([]string{c.Group, c.Artifact, c.Version}, ":")
}
