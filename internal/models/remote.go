package models

import "time"

type (
	// RemoteInfo holds the hosting coordinates parsed from a git remote URL.
	RemoteInfo struct {
		Scheme string
		Host   string
		Owner  string
		Repo   string
	}

	// RemoteContext is everything a publisher needs for one pipeline run.
	// It is built once and never mutated afterwards.
	RemoteContext struct {
		RootURL string
		APIURL  string
		Owner   string
		Repo    string
		Branch  string
		SHA     string
		Token   string
		Timeout time.Duration
	}
)

// RootURL returns scheme://host for the remote.
func (r RemoteInfo) RootURL() string {
	return r.Scheme + "://" + r.Host
}

// FullName returns owner/repo.
func (r RemoteContext) FullName() string {
	return r.Owner + "/" + r.Repo
}
