package bitbucket

import (
	"time"

	"bbpr/internal/domain/model"
)

// Wire payload shapes for the Bitbucket Cloud 2.0 API. Only the fields bbpr
// consumes are declared; unknown fields are ignored on decode.

type userPayload struct {
	Username    string `json:"username"`
	Nickname    string `json:"nickname"`
	DisplayName string `json:"display_name"`
}

// name picks the best available identifier for display.
func (u userPayload) name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}

type branchPayload struct {
	Branch struct {
		Name string `json:"name"`
	} `json:"branch"`
}

type prPayload struct {
	ID           int           `json:"id"`
	Title        string        `json:"title"`
	State        string        `json:"state"`
	Author       userPayload   `json:"author"`
	Source       branchPayload `json:"source"`
	Destination  branchPayload `json:"destination"`
	CreatedOn    string        `json:"created_on"`
	UpdatedOn    string        `json:"updated_on"`
	CommentCount int           `json:"comment_count"`
	TaskCount    int           `json:"task_count"`
	Links        struct {
		HTML struct {
			Href string `json:"href"`
		} `json:"html"`
	} `json:"links"`
	Participants []struct {
		User     userPayload `json:"user"`
		Role     string      `json:"role"`
		Approved bool        `json:"approved"`
	} `json:"participants"`
}

type commentPayload struct {
	ID     int64 `json:"id"`
	Parent *struct {
		ID int64 `json:"id"`
	} `json:"parent"`
	User    userPayload `json:"user"`
	Content struct {
		Raw string `json:"raw"`
	} `json:"content"`
	CreatedOn string `json:"created_on"`
	Inline    *struct {
		Path string `json:"path"`
		To   int    `json:"to"`
		From int    `json:"from"`
	} `json:"inline"`
	Resolution *struct {
		Type string `json:"type"`
	} `json:"resolution"`
	Deleted bool `json:"deleted"`
}

type taskPayload struct {
	ID      int64  `json:"id"`
	State   string `json:"state"`
	Content struct {
		Raw string `json:"raw"`
	} `json:"content"`
	Creator userPayload `json:"creator"`
	Comment *struct {
		ID int64 `json:"id"`
	} `json:"comment"`
	CreatedOn string `json:"created_on"`
}

type repoPayload struct {
	FullName   string `json:"full_name"`
	Mainbranch *struct {
		Name string `json:"name"`
	} `json:"mainbranch"`
}

// parseTime decodes Bitbucket's RFC3339 timestamps (with fractional
// seconds). Unparseable values yield the zero time rather than an error.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func mapPullRequest(p prPayload) model.PullRequest {
	var reviewers []model.Reviewer
	for _, part := range p.Participants {
		if part.Role != "REVIEWER" {
			continue
		}
		reviewers = append(reviewers, model.Reviewer{
			Name:     part.User.name(),
			Approved: part.Approved,
		})
	}

	return model.PullRequest{
		ID:                p.ID,
		Title:             p.Title,
		State:             model.PRState(p.State),
		Author:            p.Author.name(),
		SourceBranch:      p.Source.Branch.Name,
		DestinationBranch: p.Destination.Branch.Name,
		CreatedAt:         parseTime(p.CreatedOn),
		UpdatedAt:         parseTime(p.UpdatedOn),
		CommentCount:      p.CommentCount,
		TaskCount:         p.TaskCount,
		URL:               p.Links.HTML.Href,
		Reviewers:         reviewers,
	}
}

func mapComment(p commentPayload) model.Comment {
	c := model.Comment{
		ID:        p.ID,
		Author:    p.User.name(),
		Body:      p.Content.Raw,
		CreatedAt: parseTime(p.CreatedOn),
		Resolved:  p.Resolution != nil,
		Deleted:   p.Deleted,
	}

	if p.Parent != nil {
		id := p.Parent.ID
		c.ParentID = &id
	}

	if p.Inline != nil {
		c.Path = p.Inline.Path
		// "to" addresses the new side of the diff; removed-line comments
		// only carry "from".
		c.Line = p.Inline.To
		if c.Line == 0 {
			c.Line = p.Inline.From
		}
	}

	return c
}

func mapTask(p taskPayload) model.Task {
	t := model.Task{
		ID:        p.ID,
		State:     model.TaskState(p.State),
		Content:   p.Content.Raw,
		Creator:   p.Creator.name(),
		CreatedAt: parseTime(p.CreatedOn),
	}
	if p.Comment != nil {
		id := p.Comment.ID
		t.CommentID = &id
	}
	return t
}

func mapRepository(p repoPayload) model.Repository {
	r := model.Repository{FullName: p.FullName}
	if p.Mainbranch != nil {
		r.MainBranch = p.Mainbranch.Name
	}
	return r
}
