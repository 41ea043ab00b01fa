package types

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrRepositoryNotFound = errors.New("repository not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// MaxUploadAssets is the number of assets the maven2 upload endpoint accepts
// in one request.
const MaxUploadAssets = 3

// InfoRetrievalError is returned when a nexus read endpoint answers with a
// non-success status.
type InfoRetrievalError struct {
	Status  int
	URL     string
	Message string
}

func (e *InfoRetrievalError) Error() string {
	return fmt.Sprintf("failed to retrieve %s, code: %d, message: %s", e.URL, e.Status, e.Message)
}

// PermissionHint builds the message returned when a repository lookup is
// answered with 404, which nexus also does when read privileges are missing.
func PermissionHint(format, name string) string {
	return fmt.Sprintf("repository %q not found, check that the user has the nx-repository-admin-%s-%s-read privilege",
		name, aliasFormat(format), name)
}

func aliasFormat(format string) string {
	if format == FormatMaven2 {
		return "maven"
	}
	return format
}

// UploadError is returned when the component upload endpoint rejects a form.
type UploadError struct {
	Status     int
	Repository string
	Body       string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload to %s failed, code: %d, message: %s", e.Repository, e.Status, strings.TrimSpace(e.Body))
}

// AssetLimitExceededError is returned when a release component has more
// eligible assets than a single upload can carry.
type AssetLimitExceededError struct {
	Component string
	Count     int
}

func (e *AssetLimitExceededError) Error() string {
	return fmt.Sprintf("component %s has %d assets, at most %d can be uploaded at once",
		e.Component, e.Count, MaxUploadAssets)
}

// DeployError carries the exit code of a failed mvn deploy.
type DeployError struct {
	ExitCode int
	Stderr   string
}

func (e *DeployError) Error() string {
	return fmt.Sprintf("maven deploy exited with code %d", e.ExitCode)
}

type MissingMavenSettingError struct {
	Path string
}

func (e *MissingMavenSettingError) Error() string {
	if e.Path == "" {
		return "maven settings file is required to migrate snapshot repositories"
	}
	return fmt.Sprintf("maven settings file %s does not exist", e.Path)
}

type MissingSnapshotIdError struct{}

func (e *MissingSnapshotIdError) Error() string {
	return "snapshot_id is required to migrate snapshot repositories"
}

// UnsupportedPolicyError is returned for version policies with no pipeline.
type UnsupportedPolicyError struct {
	Repository string
	Policy     VersionPolicy
}

func (e *UnsupportedPolicyError) Error() string {
	return fmt.Sprintf("repository %s has unsupported version policy %q", e.Repository, e.Policy)
}

type RepositoryTypeNotSupportedError struct {
	Repository string
	Type       string
}

func (e *RepositoryTypeNotSupportedError) Error() string {
	return fmt.Sprintf("repository %s is of type %s, only %s repositories can be migrated", e.Repository, e.Type, TypeHosted)
}

type RepositoryFormatNotSupportedError struct {
	Repository string
	Format     string
}

func (e *RepositoryFormatNotSupportedError) Error() string {
	return fmt.Sprintf("repository %s has format %s, only %s repositories can be migrated", e.Repository, e.Format, FormatMaven2)
}
