package services

import (
	"errors"
	"testing"

	"murmur/internal/models"
)

func TestCastVoteAppliedOncePerVoter(t *testing.T) {
	conn := testDB(t)
	karma := NewKarmaService(conn)

	owner := createUser(t, conn, "owner")
	voter := createUser(t, conn, "voter")
	post := createPost(t, conn, owner, "first post")

	applied, err := karma.CastVote(voter.ID, VoteTargetPost, post.ID, DirectionUp)
	if err != nil {
		t.Fatalf("first vote failed: %v", err)
	}
	if !applied {
		t.Fatal("expected first vote to be applied")
	}

	var gotPost models.Post
	if err := conn.First(&gotPost, post.ID).Error; err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if gotPost.Karma != 1 {
		t.Fatalf("expected post karma 1, got %d", gotPost.Karma)
	}
	var gotOwner models.User
	if err := conn.First(&gotOwner, owner.ID).Error; err != nil {
		t.Fatalf("reload owner: %v", err)
	}
	if gotOwner.Karma != 1 {
		t.Fatalf("expected owner karma 1, got %d", gotOwner.Karma)
	}

	// A second vote, even in the opposite direction, is rejected with
	// no state change.
	applied, err = karma.CastVote(voter.ID, VoteTargetPost, post.ID, DirectionDown)
	if err != nil {
		t.Fatalf("second vote errored: %v", err)
	}
	if applied {
		t.Fatal("expected second vote to be rejected")
	}
	conn.First(&gotPost, post.ID)
	if gotPost.Karma != 1 {
		t.Fatalf("expected post karma unchanged at 1, got %d", gotPost.Karma)
	}
	conn.First(&gotOwner, owner.ID)
	if gotOwner.Karma != 1 {
		t.Fatalf("expected owner karma unchanged at 1, got %d", gotOwner.Karma)
	}

	var memberships int64
	conn.Model(&models.Vote{}).Where("user_id = ? AND post_id = ?", voter.ID, post.ID).Count(&memberships)
	if memberships != 1 {
		t.Fatalf("expected exactly one vote membership, got %d", memberships)
	}
}

func TestCastVoteKarmaConservation(t *testing.T) {
	conn := testDB(t)
	karma := NewKarmaService(conn)

	owner := createUser(t, conn, "owner")
	post := createPost(t, conn, owner, "scored post")

	ups := 3
	downs := 2
	for i := 0; i < ups; i++ {
		voter := createUser(t, conn, "up"+string(rune('a'+i)))
		if applied, err := karma.CastVote(voter.ID, VoteTargetPost, post.ID, DirectionUp); err != nil || !applied {
			t.Fatalf("upvote %d not applied: applied=%v err=%v", i, applied, err)
		}
	}
	for i := 0; i < downs; i++ {
		voter := createUser(t, conn, "down"+string(rune('a'+i)))
		if applied, err := karma.CastVote(voter.ID, VoteTargetPost, post.ID, DirectionDown); err != nil || !applied {
			t.Fatalf("downvote %d not applied: applied=%v err=%v", i, applied, err)
		}
	}

	var gotPost models.Post
	conn.First(&gotPost, post.ID)
	if gotPost.Karma != ups-downs {
		t.Fatalf("expected post karma %d, got %d", ups-downs, gotPost.Karma)
	}
	var gotOwner models.User
	conn.First(&gotOwner, owner.ID)
	if gotOwner.Karma != ups-downs {
		t.Fatalf("expected owner karma %d, got %d", ups-downs, gotOwner.Karma)
	}
}

func TestCastVoteOnComment(t *testing.T) {
	conn := testDB(t)
	karma := NewKarmaService(conn)

	poster := createUser(t, conn, "poster")
	commenter := createUser(t, conn, "commenter")
	voter := createUser(t, conn, "voter")
	post := createPost(t, conn, poster, "post")

	comment := models.Comment{PostID: post.ID, UserID: commenter.ID, Body: "a comment"}
	if err := conn.Create(&comment).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}

	applied, err := karma.CastVote(voter.ID, VoteTargetComment, comment.ID, DirectionDown)
	if err != nil || !applied {
		t.Fatalf("comment vote not applied: applied=%v err=%v", applied, err)
	}

	var gotComment models.Comment
	conn.First(&gotComment, comment.ID)
	if gotComment.Karma != -1 {
		t.Fatalf("expected comment karma -1, got %d", gotComment.Karma)
	}
	var gotCommenter models.User
	conn.First(&gotCommenter, commenter.ID)
	if gotCommenter.Karma != -1 {
		t.Fatalf("expected comment owner karma -1, got %d", gotCommenter.Karma)
	}
	// Post owner is untouched by comment votes.
	var gotPoster models.User
	conn.First(&gotPoster, poster.ID)
	if gotPoster.Karma != 0 {
		t.Fatalf("expected post owner karma 0, got %d", gotPoster.Karma)
	}
}

func TestCastVoteSelfVoteRejected(t *testing.T) {
	conn := testDB(t)
	karma := NewKarmaService(conn)

	owner := createUser(t, conn, "owner")
	post := createPost(t, conn, owner, "my own post")

	_, err := karma.CastVote(owner.ID, VoteTargetPost, post.ID, DirectionUp)
	if !errors.Is(err, ErrSelfVote) {
		t.Fatalf("expected ErrSelfVote, got %v", err)
	}

	var gotPost models.Post
	conn.First(&gotPost, post.ID)
	if gotPost.Karma != 0 {
		t.Fatalf("expected karma unchanged, got %d", gotPost.Karma)
	}
}

func TestCastVoteUnknownItem(t *testing.T) {
	conn := testDB(t)
	karma := NewKarmaService(conn)
	voter := createUser(t, conn, "voter")

	_, err := karma.CastVote(voter.ID, VoteTargetPost, 9999, DirectionUp)
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestVoteMembershipIsDirectionless(t *testing.T) {
	conn := testDB(t)
	karma := NewKarmaService(conn)

	owner := createUser(t, conn, "owner")
	voter := createUser(t, conn, "voter")
	post := createPost(t, conn, owner, "post")

	if _, err := karma.CastVote(voter.ID, VoteTargetPost, post.ID, DirectionDown); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	voted, err := karma.HasVoted(voter.ID, VoteTargetPost, post.ID)
	if err != nil {
		t.Fatalf("HasVoted failed: %v", err)
	}
	if !voted {
		t.Fatal("expected membership to exist")
	}

	// The membership row carries no direction column; only the karma
	// counters remember which way the vote went.
	var vote models.Vote
	if err := conn.Where("user_id = ? AND post_id = ?", voter.ID, post.ID).First(&vote).Error; err != nil {
		t.Fatalf("load vote row: %v", err)
	}
	if vote.CommentID != nil {
		t.Fatal("post vote must not reference a comment")
	}
}
