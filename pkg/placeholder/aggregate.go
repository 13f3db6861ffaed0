package placeholder

import (
	"context"
	"fmt"

	"github.com/samvad-hq/jsonplaceholder-client/pkg/jsondoc"
)

// NoPostID is the last-post id reported for a user without posts.
const NoPostID = -1

// PostComments holds the comments of a user's highest-id post.
type PostComments struct {
	UserID   int
	PostID   int
	Comments string
}

// LastPostID scans a JSON array of posts and returns the greatest "id".
// An empty array yields NoPostID.
func LastPostID(postsJSON string) (int, error) {
	doc, err := jsondoc.Parse([]byte(postsJSON))
	if err != nil {
		return 0, fmt.Errorf("parse posts: %w", err)
	}
	posts, err := doc.Elements()
	if err != nil {
		return 0, fmt.Errorf("parse posts: %w", err)
	}

	maxID := NoPostID
	for i, post := range posts {
		id, err := post.IntField("id")
		if err != nil {
			return 0, fmt.Errorf("posts[%d]: %w", i, err)
		}
		if id > maxID {
			maxID = id
		}
	}
	return maxID, nil
}

// FilterOpenTodos returns a compact JSON array of the todos whose
// "completed" field is false, in their original order.
func FilterOpenTodos(todosJSON string) (string, error) {
	doc, err := jsondoc.Parse([]byte(todosJSON))
	if err != nil {
		return "", fmt.Errorf("parse todos: %w", err)
	}
	todos, err := doc.Elements()
	if err != nil {
		return "", fmt.Errorf("parse todos: %w", err)
	}

	open := make([]jsondoc.Node, 0, len(todos))
	for i, todo := range todos {
		done, err := todo.BoolField("completed")
		if err != nil {
			return "", fmt.Errorf("todos[%d]: %w", i, err)
		}
		if !done {
			open = append(open, todo)
		}
	}

	out, err := jsondoc.JoinArray(open)
	if err != nil {
		return "", fmt.Errorf("encode open todos: %w", err)
	}
	return string(out), nil
}

// LastPostComments fetches the user's posts, picks the highest id and
// fetches that post's comments. A user without posts resolves to
// /posts/-1/comments, whatever the upstream answers for it.
func (c *Client) LastPostComments(ctx context.Context, userID int) (PostComments, error) {
	posts, err := c.ListUserPosts(ctx, userID)
	if err != nil {
		return PostComments{}, fmt.Errorf("fetch posts for user %d: %w", userID, err)
	}
	postID, err := LastPostID(posts)
	if err != nil {
		return PostComments{}, fmt.Errorf("user %d: %w", userID, err)
	}
	comments, err := c.ListPostComments(ctx, postID)
	if err != nil {
		return PostComments{}, fmt.Errorf("fetch comments for post %d: %w", postID, err)
	}
	return PostComments{UserID: userID, PostID: postID, Comments: comments}, nil
}

// OpenTodos fetches the user's todos and keeps only the open ones.
func (c *Client) OpenTodos(ctx context.Context, userID int) (string, error) {
	todos, err := c.ListUserTodos(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("fetch todos for user %d: %w", userID, err)
	}
	open, err := FilterOpenTodos(todos)
	if err != nil {
		return "", fmt.Errorf("user %d: %w", userID, err)
	}
	return open, nil
}
