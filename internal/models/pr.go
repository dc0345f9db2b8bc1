package models

// PullRequestHandle identifies the pull request of the current branch. It is
// resolved on every publish because another run may have created the PR.
type PullRequestHandle string

type (
	// PullRequest is the subset of a hosted pull request the publisher reads.
	PullRequest struct {
		Handle PullRequestHandle
		Title  string
		Body   string
		URL    string
	}

	// CommitStatus is the status posted against the captured commit SHA.
	CommitStatus struct {
		Context     string
		Description string
		State       PublishStatus
		TargetURL   string
	}
)
