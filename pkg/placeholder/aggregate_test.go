package placeholder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"testing"
	"time"
)

func TestLastPostID(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{`[{"id":5},{"id":2},{"id":9}]`, 9},
		{`[]`, NoPostID},
		{`[{"id":1,"userId":1,"title":"t"}]`, 1},
		{"[\n {\"id\": 3},\n {\"id\": 30}\n]", 30},
	}
	for _, tc := range cases {
		got, err := LastPostID(tc.in)
		if err != nil {
			t.Fatalf("LastPostID(%s): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("LastPostID(%s) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestLastPostIDRejectsMalformedPosts(t *testing.T) {
	for _, in := range []string{`{"id":1}`, `[{"title":"no id"}]`, `[{"id":"7"}]`, `not json`} {
		if _, err := LastPostID(in); err == nil {
			t.Fatalf("LastPostID(%s) expected error", in)
		}
	}
}

func TestLastPostIDPicksMaximumForDistinctIDs(t *testing.T) {
	for n := 1; n <= 20; n++ {
		ids := make([]map[string]int, 0, n)
		want := 0
		for i := 0; i < n; i++ {
			id := (i*7)%n + 1 + i*n
			ids = append(ids, map[string]int{"id": id})
			if id > want {
				want = id
			}
		}
		raw, _ := json.Marshal(ids)
		got, err := LastPostID(string(raw))
		if err != nil || got != want {
			t.Fatalf("n=%d: got %d err=%v, want %d", n, got, err, want)
		}
	}
}

func TestFilterOpenTodos(t *testing.T) {
	got, err := FilterOpenTodos(`[{"id":1,"completed":true},{"id":2,"completed":false}]`)
	if err != nil {
		t.Fatalf("FilterOpenTodos: %v", err)
	}
	if got != `[{"id":2,"completed":false}]` {
		t.Fatalf("FilterOpenTodos = %s", got)
	}
}

func TestFilterOpenTodosKeepsOrderAndIsIdempotent(t *testing.T) {
	in := `[
  {"userId": 1, "id": 1, "title": "a", "completed": false},
  {"userId": 1, "id": 2, "title": "b", "completed": true},
  {"userId": 1, "id": 3, "title": "c  d", "completed": false},
  {"userId": 1, "id": 4, "title": "e", "completed": true}
]`
	once, err := FilterOpenTodos(in)
	if err != nil {
		t.Fatalf("FilterOpenTodos: %v", err)
	}
	want := `[{"userId":1,"id":1,"title":"a","completed":false},{"userId":1,"id":3,"title":"c  d","completed":false}]`
	if once != want {
		t.Fatalf("got %s\nwant %s", once, want)
	}
	twice, err := FilterOpenTodos(once)
	if err != nil {
		t.Fatalf("second FilterOpenTodos: %v", err)
	}
	if twice != once {
		t.Fatalf("filter is not idempotent: %s vs %s", twice, once)
	}
}

func TestFilterOpenTodosEdgeCases(t *testing.T) {
	if got, err := FilterOpenTodos(`[]`); err != nil || got != "[]" {
		t.Fatalf("empty: got %q err=%v", got, err)
	}
	if got, err := FilterOpenTodos(`[{"id":1,"completed":true}]`); err != nil || got != "[]" {
		t.Fatalf("all done: got %q err=%v", got, err)
	}
	for _, in := range []string{`[{"id":1}]`, `[{"id":1,"completed":"false"}]`, `{}`} {
		if _, err := FilterOpenTodos(in); err == nil {
			t.Fatalf("FilterOpenTodos(%s) expected error", in)
		}
	}
}

type todo struct {
	ID        int  `json:"id"`
	Completed bool `json:"completed"`
}

func TestTodoListRoundTripKeepsIDCompletedPairs(t *testing.T) {
	todos := []todo{{1, true}, {2, false}, {3, false}, {4, true}}
	raw, err := json.Marshal(todos)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back []todo
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, todos) {
		t.Fatalf("round trip changed todos: %+v", back)
	}

	open, err := FilterOpenTodos(string(raw))
	if err != nil {
		t.Fatalf("FilterOpenTodos: %v", err)
	}
	var filtered []todo
	if err := json.Unmarshal([]byte(open), &filtered); err != nil {
		t.Fatalf("unmarshal filtered: %v", err)
	}
	if !reflect.DeepEqual(filtered, []todo{{2, false}, {3, false}}) {
		t.Fatalf("unexpected filtered pairs %+v", filtered)
	}
}

func TestLastPostCommentsFetchesHighestPost(t *testing.T) {
	up, srv := newStubUpstream(t, map[string]string{
		"GET /users/1/posts":    `[{"id":5},{"id":2},{"id":9}]`,
		"GET /posts/9/comments": `[{"postId":9,"id":1}]`,
	})
	client := NewWithBaseURL(srv.URL, time.Second, Options{})

	got, err := client.LastPostComments(context.Background(), 1)
	if err != nil {
		t.Fatalf("LastPostComments: %v", err)
	}
	if got.UserID != 1 || got.PostID != 9 || got.Comments != `[{"postId":9,"id":1}]` {
		t.Fatalf("unexpected result %+v", got)
	}
	if req := up.last(); req.path != "/posts/9/comments" || req.method != http.MethodGet {
		t.Fatalf("comments fetched from %s %s", req.method, req.path)
	}
}

func TestLastPostCommentsWithoutPostsTargetsMinusOne(t *testing.T) {
	up, srv := newStubUpstream(t, map[string]string{
		"GET /users/7/posts": `[]`,
	})
	client := NewWithBaseURL(srv.URL, time.Second, Options{})

	got, err := client.LastPostComments(context.Background(), 7)
	if err != nil {
		t.Fatalf("LastPostComments: %v", err)
	}
	if got.PostID != NoPostID {
		t.Fatalf("PostID = %d", got.PostID)
	}
	if req := up.last(); req.path != fmt.Sprintf("/posts/%d/comments", NoPostID) {
		t.Fatalf("comments fetched from %s", req.path)
	}
}

func TestOpenTodosFetchesAndFilters(t *testing.T) {
	_, srv := newStubUpstream(t, map[string]string{
		"GET /users/1/todos": `[{"id":1,"completed":true},{"id":2,"completed":false}]`,
	})
	got, err := NewWithBaseURL(srv.URL, time.Second, Options{}).OpenTodos(context.Background(), 1)
	if err != nil {
		t.Fatalf("OpenTodos: %v", err)
	}
	if got != `[{"id":2,"completed":false}]` {
		t.Fatalf("OpenTodos = %s", got)
	}
}
