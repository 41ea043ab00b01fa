// Package nexustest runs an in-memory nexus REST API for tests.
package nexustest

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/harness/nexus-migrate/module/maven/migrate/types"
)

// Upload is one recorded POST to the components endpoint.
type Upload struct {
	Repository string
	Fields     map[string]string
	Files      map[string][]byte
	FileNames  map[string]string
}

// Server is a fake nexus instance.
type Server struct {
	*httptest.Server

	// PageSize bounds the components returned per listing call.
	PageSize int
	// UploadStatus, when set, is returned for every upload.
	UploadStatus int
	// HideAssets strips path, download url and checksum from listed assets
	// so clients have to resolve them through the asset endpoint.
	HideAssets bool

	mu           sync.Mutex
	repositories []types.RepositoryInfo
	details      map[string]types.RepositoryDetail
	components   map[string][]types.ComponentRecord
	blobs        map[string][]byte
	listCalls    map[string]int
	downloads    map[string]int
	uploads      []Upload
}

// NewServer starts a fake nexus and stops it when the test ends.
func NewServer(t testing.TB) *Server {
	s := &Server{
		PageSize:   100,
		details:    map[string]types.RepositoryDetail{},
		components: map[string][]types.ComponentRecord{},
		blobs:      map[string][]byte{},
		listCalls:  map[string]int{},
		downloads:  map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /service/rest/v1/repositories", s.handleRepositories)
	mux.HandleFunc("GET /service/rest/v1/repositories/{format}/{type}/{name}", s.handleRepository)
	mux.HandleFunc("GET /service/rest/v1/components", s.handleComponents)
	mux.HandleFunc("GET /service/rest/v1/components/{id}", s.handleComponent)
	mux.HandleFunc("GET /service/rest/v1/assets/{id}", s.handleAsset)
	mux.HandleFunc("POST /service/rest/v1/components", s.handleUpload)
	mux.HandleFunc("GET /repository/", s.handleDownload)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// AddRepository registers a repository with the given version policy. An
// empty policy leaves the maven attributes out of the detail.
func (s *Server) AddRepository(name, format, typ string, policy types.VersionPolicy) types.RepositoryInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := types.RepositoryInfo{
		Name:   name,
		Format: format,
		Type:   typ,
		URL:    s.URL + "/repository/" + name,
		Online: true,
	}
	detail := types.RepositoryDetail{
		Name:    name,
		Format:  format,
		Type:    typ,
		URL:     info.URL,
		Online:  true,
		Storage: types.StorageConfig{BlobStoreName: "default", StrictContentTypeValidation: true},
	}
	if policy != "" {
		detail.Maven = &types.MavenPolicy{VersionPolicy: policy, LayoutPolicy: "STRICT"}
	}
	s.repositories = append(s.repositories, info)
	s.details[name] = detail
	return info
}

// AddComponent stores a component whose assets are keyed by path.
func (s *Server) AddComponent(repository, group, name, version string, assets map[string]string) types.ComponentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("%s-%d", repository, len(s.components[repository]))
	component := types.ComponentRecord{
		ID:         id,
		Repository: repository,
		Format:     types.FormatMaven2,
		Group:      group,
		Name:       name,
		Version:    version,
	}
	for _, path := range slices.Sorted(maps.Keys(assets)) {
		content := []byte(assets[path])
		sum := md5.Sum(content)
		blobKey := repository + "/" + path
		s.blobs[blobKey] = content
		component.Assets = append(component.Assets, types.AssetRecord{
			ID:          fmt.Sprintf("%s-%d", id, len(component.Assets)),
			Repository:  repository,
			Format:      types.FormatMaven2,
			Path:        path,
			DownloadURL: s.URL + "/repository/" + blobKey,
			Checksum:    types.Checksum{MD5: hex.EncodeToString(sum[:])},
			FileSize:    int64(len(content)),
		})
	}
	s.components[repository] = append(s.components[repository], component)
	return component
}

// ListCalls returns how many listing pages were served for a repository.
func (s *Server) ListCalls(repository string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls[repository]
}

// Downloads returns how many times an asset path was downloaded.
func (s *Server) Downloads(repository, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.downloads[repository+"/"+path]
}

// Uploads returns the recorded uploads.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Upload, len(s.uploads))
	copy(out, s.uploads)
	return out
}

func (s *Server) handleRepositories(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, s.repositories)
}

func (s *Server) handleRepository(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	detail, ok := s.details[r.PathValue("name")]
	if !ok || r.PathValue("type") != detail.Type {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, detail)
}

func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repository := r.URL.Query().Get("repository")
	s.listCalls[repository]++

	start := 0
	if token := r.URL.Query().Get("continuationToken"); token != "" {
		n, err := strconv.Atoi(token)
		if err != nil {
			http.Error(w, "bad token", http.StatusBadRequest)
			return
		}
		start = n
	}

	all := s.components[repository]
	end := start + s.PageSize
	if end > len(all) {
		end = len(all)
	}
	page := types.ComponentPage{Items: []types.ComponentRecord{}}
	for _, c := range all[start:end] {
		page.Items = append(page.Items, s.listed(c))
	}
	if end < len(all) {
		page.ContinuationToken = strconv.Itoa(end)
	}
	writeJSON(w, page)
}

func (s *Server) listed(c types.ComponentRecord) types.ComponentRecord {
	if !s.HideAssets {
		return c
	}
	out := c
	out.Assets = make([]types.AssetRecord, len(c.Assets))
	for i, a := range c.Assets {
		out.Assets[i] = types.AssetRecord{ID: a.ID, Repository: a.Repository, Format: a.Format}
	}
	return out
}

func (s *Server) handleComponent(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, list := range s.components {
		for _, c := range list {
			if c.ID == r.PathValue("id") {
				writeJSON(w, c)
				return
			}
		}
	}
	http.NotFound(w, r)
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, list := range s.components {
		for _, c := range list {
			for _, a := range c.Assets {
				if a.ID == r.PathValue("id") {
					writeJSON(w, a)
					return
				}
			}
		}
	}
	http.NotFound(w, r)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimPrefix(r.URL.Path, "/repository/")
	content, ok := s.blobs[key]
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.downloads[key]++
	_, _ = w.Write(content)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	upload := Upload{
		Repository: r.URL.Query().Get("repository"),
		Fields:     map[string]string{},
		Files:      map[string][]byte{},
		FileNames:  map[string]string{},
	}
	for name, values := range r.MultipartForm.Value {
		upload.Fields[name] = values[0]
	}
	for name, headers := range r.MultipartForm.File {
		f, err := headers[0].Open()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		upload.Files[name] = data
		upload.FileNames[name] = headers[0].Filename
	}

	s.mu.Lock()
	s.uploads = append(s.uploads, upload)
	status := s.UploadStatus
	s.mu.Unlock()

	if status != 0 {
		http.Error(w, "rejected", status)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
