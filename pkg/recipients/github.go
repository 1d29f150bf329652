package recipients

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"

	"github.com/aiflawlab/sdk/pkg/canonical"
	sdkerrors "github.com/aiflawlab/sdk/pkg/errors"
)

// IssuesService is the slice of the GitHub API the notifier uses.
type IssuesService interface {
	Create(ctx context.Context, owner, repo string, issue *github.IssueRequest) (*github.Issue, *github.Response, error)
}

// GitHubNotifier opens a tracking issue for each submitted report in a
// disclosure-coordination repository. Issue bodies carry only the summary,
// never the raw form data.
type GitHubNotifier struct {
	issues IssuesService
	owner  string
	repo   string
}

// NewGitHubNotifier creates a notifier for owner/repo. An empty token uses
// an unauthenticated client, which only works against public repositories.
func NewGitHubNotifier(ctx context.Context, token, owner, repo string) *GitHubNotifier {
	var client *github.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		client = github.NewClient(oauth2.NewClient(ctx, ts))
	} else {
		client = github.NewClient(nil)
	}
	return &GitHubNotifier{issues: client.Issues, owner: owner, repo: repo}
}

// NewGitHubNotifierWithIssues wires a custom issues service, mainly for
// tests.
func NewGitHubNotifierWithIssues(issues IssuesService, owner, repo string) *GitHubNotifier {
	return &GitHubNotifier{issues: issues, owner: owner, repo: repo}
}

// Notify opens the tracking issue and returns its URL.
func (n *GitHubNotifier) Notify(ctx context.Context, r *canonical.Report, resolved []Recipient) (string, error) {
	title := fmt.Sprintf("Flaw report %s", r.ID)
	if len(r.Systems) > 0 && r.Systems[0].Name != "" {
		title = fmt.Sprintf("Flaw report %s: %s", r.ID, r.Systems[0].Name)
	}

	labels := make([]string, 0, len(r.Categories))
	for _, c := range r.Categories {
		labels = append(labels, strings.ToLower(strings.ReplaceAll(c.String(), " ", "-")))
	}

	body := issueBody(r, resolved)
	issue, _, err := n.issues.Create(ctx, n.owner, n.repo, &github.IssueRequest{
		Title:  github.Ptr(title),
		Body:   github.Ptr(body),
		Labels: &labels,
	})
	if err != nil {
		return "", sdkerrors.E(sdkerrors.KindNetwork, "recipients.GitHubNotifier.Notify", "creating tracking issue", err)
	}
	return issue.GetHTMLURL(), nil
}

func issueBody(r *canonical.Report, resolved []Recipient) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Report `%s` was submitted on %s.\n\n", r.ID, r.ProcessedAt.Format("2006-01-02"))

	if r.Severity != "" {
		fmt.Fprintf(&b, "**Severity:** %s\n", r.Severity)
	}
	if len(r.Categories) > 0 {
		cats := make([]string, 0, len(r.Categories))
		for _, c := range r.Categories {
			cats = append(cats, c.String())
		}
		fmt.Fprintf(&b, "**Categories:** %s\n", strings.Join(cats, ", "))
	}
	if len(r.Systems) > 0 {
		names := make([]string, 0, len(r.Systems))
		for _, s := range r.Systems {
			names = append(names, s.Name)
		}
		fmt.Fprintf(&b, "**Systems:** %s\n", strings.Join(names, ", "))
	}

	if len(resolved) > 0 {
		b.WriteString("\n**Recipients:**\n")
		for _, rec := range resolved {
			fmt.Fprintf(&b, "- %s (%s): %s\n", rec.Name, rec.Type, rec.Contact)
		}
	}
	return b.String()
}
