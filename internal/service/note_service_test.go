package service_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"notevault-be/internal/dto"
	"notevault-be/internal/entity"
	"notevault-be/internal/pkg/apperror"
	"notevault-be/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNoteService(store *memStore) (service.INoteService, *fakePublisher) {
	factory := &fakeFactory{store: store}
	pub := &fakePublisher{}
	authSvc := service.NewAuthService(factory, nil, "test-secret")
	noteSvc := service.NewNoteService(factory, authSvc, pub, nil, nopLogger{})
	return noteSvc, pub
}

func requireKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, kind, appErr.Kind)
}

func strPtr(s string) *string {
	return &s
}

func TestCreateNote(t *testing.T) {
	store := newMemStore()
	svc, pub := newNoteService(store)
	owner := store.addUser("alice")

	res, err := svc.Create(context.Background(), owner.Id, &dto.CreateNoteRequest{
		Title:   "Test Note",
		Content: "This is a test note.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Test Note", res.Title)
	assert.Equal(t, "This is a test note.", res.Content)
	assert.Equal(t, owner.Id.String(), res.Owner)
	assert.False(t, res.CreatedAt.IsZero())
	assert.Equal(t, res.CreatedAt, res.UpdatedAt)

	// creation is announced on the activity topic
	require.Len(t, pub.published, 1)
	var msg dto.NoteActivityMessage
	require.NoError(t, json.Unmarshal(pub.published[0], &msg))
	assert.Equal(t, entity.NoteActivityCreated, msg.Action)
	assert.Equal(t, res.Id, msg.NoteId)
}

func TestCreateNoteValidation(t *testing.T) {
	store := newMemStore()
	svc, _ := newNoteService(store)
	owner := store.addUser("alice")

	cases := []struct {
		name    string
		title   string
		content string
	}{
		{"empty title", "", "content"},
		{"blank title", "   ", "content"},
		{"oversized title", strings.Repeat("x", 151), "content"},
		{"empty content", "A title", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), owner.Id, &dto.CreateNoteRequest{
				Title:   tc.title,
				Content: tc.content,
			})
			requireKind(t, err, apperror.KindValidation)
		})
	}
}

func TestCreateNoteTitleAtLimit(t *testing.T) {
	store := newMemStore()
	svc, _ := newNoteService(store)
	owner := store.addUser("alice")

	_, err := svc.Create(context.Background(), owner.Id, &dto.CreateNoteRequest{
		Title:   strings.Repeat("x", 150),
		Content: "content",
	})
	assert.NoError(t, err)
}

func TestShowNoteAccess(t *testing.T) {
	store := newMemStore()
	svc, _ := newNoteService(store)
	owner := store.addUser("alice")
	grantee := store.addUser("bob")
	stranger := store.addUser("carol")

	created, err := svc.Create(context.Background(), owner.Id, &dto.CreateNoteRequest{
		Title:   "Test Note",
		Content: "This is a test note.",
	})
	require.NoError(t, err)

	_, err = svc.Share(context.Background(), owner.Id, &dto.ShareNoteRequest{
		Id:        created.Id,
		Usernames: []string{"bob"},
	})
	require.NoError(t, err)

	// owner reads back the identical note
	res, err := svc.Show(context.Background(), owner.Id, created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Title, res.Title)
	assert.Equal(t, created.Content, res.Content)

	// a grantee may read
	_, err = svc.Show(context.Background(), grantee.Id, created.Id)
	assert.NoError(t, err)

	// a stranger gets not-found, identical to a missing note
	_, strangerErr := svc.Show(context.Background(), stranger.Id, created.Id)
	requireKind(t, strangerErr, apperror.KindNotFound)

	_, missingErr := svc.Show(context.Background(), owner.Id, uuid.New())
	requireKind(t, missingErr, apperror.KindNotFound)

	assert.Equal(t, missingErr.Error(), strangerErr.Error())
}

func TestUpdateNotePartialFields(t *testing.T) {
	store := newMemStore()
	svc, _ := newNoteService(store)
	owner := store.addUser("alice")

	created, err := svc.Create(context.Background(), owner.Id, &dto.CreateNoteRequest{
		Title:   "Original Title",
		Content: "Original Content",
	})
	require.NoError(t, err)

	res, err := svc.Update(context.Background(), owner.Id, &dto.UpdateNoteRequest{
		Id:      created.Id,
		Content: strPtr("Updated Content"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Original Title", res.Title) // omitted field retained
	assert.Equal(t, "Updated Content", res.Content)
	assert.Equal(t, created.Owner, res.Owner)
	assert.True(t, res.UpdatedAt.After(created.UpdatedAt) || res.UpdatedAt.Equal(created.UpdatedAt))

	res, err = svc.Update(context.Background(), owner.Id, &dto.UpdateNoteRequest{
		Id:    created.Id,
		Title: strPtr("New Title"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Title", res.Title)
	assert.Equal(t, "Updated Content", res.Content)
}

func TestUpdateNoteNoFields(t *testing.T) {
	store := newMemStore()
	svc, _ := newNoteService(store)
	owner := store.addUser("alice")

	created, err := svc.Create(context.Background(), owner.Id, &dto.CreateNoteRequest{
		Title:   "Title",
		Content: "Content",
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), owner.Id, &dto.UpdateNoteRequest{Id: created.Id})
	requireKind(t, err, apperror.KindValidation)
}

func TestUpdateNoteCapturesPreImage(t *testing.T) {
	store := newMemStore()
	svc, _ := newNoteService(store)
	owner := store.addUser("alice")

	created, err := svc.Create(context.Background(), owner.Id, &dto.CreateNoteRequest{
		Title:   "Test Note",
		Content: "Original Content",
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), owner.Id, &dto.UpdateNoteRequest{
		Id:      created.Id,
		Content: strPtr("Updated Content"),
	})
	require.NoError(t, err)

	entries, err := svc.History(context.Background(), owner.Id, created.Id)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Original Content", entries[0].Content)
}

func TestHistoryOrderedMostRecentFirst(t *testing.T) {
	store := newMemStore()
	svc, _ := newNoteService(store)
	owner := store.addUser("alice")

	created, err := svc.Create(context.Background(), owner.Id, &dto.CreateNoteRequest{
		Title:   "Test Note",
		Content: "v1",
	})
	require.NoError(t, err)

	for _, content := range []string{"v2", "v3"} {
		time.Sleep(2 * time.Millisecond) // distinct capture timestamps
		_, err = svc.Update(context.Background(), owner.Id, &dto.UpdateNoteRequest{
			Id:      created.Id,
			Content: strPtr(content),
		})
		require.NoError(t, err)
	}

	entries, err := svc.History(context.Background(), owner.Id, created.Id)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// most recent edit's pre-image first
	assert.Equal(t, "v2", entries[0].Content)
	assert.Equal(t, "v1", entries[1].Content)
}

func TestHistoryEmptyBeforeAnyUpdate(t *testing.T) {
	store := newMemStore()
	svc, _ := newNoteService(store)
	owner := store.addUser("alice")

	created, err := svc.Create(context.Background(), owner.Id, &dto.CreateNoteRequest{
		Title:   "Test Note",
		Content: "content",
	})
	require.NoError(t, err)

	entries, err := svc.History(context.Background(), owner.Id, created.Id)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOwnerImmutableAcrossUpdates(t *testing.T) {
	store := newMemStore()
	svc, _ := newNoteService(store)
	owner := store.addUser("alice")

	created, err := svc.Create(context.Background(), owner.Id, &dto.CreateNoteRequest{
		Title:   "Test Note",
		Content: "v1",
	})
	require.NoError(t, err)

	for _, content := range []string{"v2", "v3", "v4"} {
		res, err := svc.Update(context.Background(), owner.Id, &dto.UpdateNoteRequest{
			Id:      created.Id,
			Content: strPtr(content),
		})
		require.NoError(t, err)
		assert.Equal(t, owner.Id.String(), res.Owner)
	}
}

func TestUpdateNoteByGranteeFails(t *testing.T) {
	store := newMemStore()
	svc, _ := newNoteService(store)
	owner := store.addUser("alice")
	grantee := store.addUser("bob")

	created, err := svc.Create(context.Background(), owner.Id, &dto.CreateNoteRequest{
		Title:   "Test Note",
		Content: "content",
	})
	require.NoError(t, err)

	_, err = svc.Share(context.Background(), owner.Id, &dto.ShareNoteRequest{
		Id:        created.Id,
		Usernames: []string{"bob"},
	})
	require.NoError(t, err)

	// sharing grants read, never write
	_, err = svc.Update(context.Background(), grantee.Id, &dto.UpdateNoteRequest{
		Id:      created.Id,
		Content: strPtr("hijacked"),
	})
	requireKind(t, err, apperror.KindNotFound)
	assert.Empty(t, store.histories)

	// nor the right to extend sharing
	_, err = svc.Share(context.Background(), grantee.Id, &dto.ShareNoteRequest{
		Id:        created.Id,
		Usernames: []string{"bob"},
	})
	requireKind(t, err, apperror.KindNotFound)
}

func TestUpdateNoteSnapshotFailureAborts(t *testing.T) {
	store := newMemStore()
	svc, _ := newNoteService(store)
	owner := store.addUser("alice")

	created, err := svc.Create(context.Background(), owner.Id, &dto.CreateNoteRequest{
		Title:   "Test Note",
		Content: "Original Content",
	})
	require.NoError(t, err)

	store.historyErr = assert.AnError
	_, err = svc.Update(context.Background(), owner.Id, &dto.UpdateNoteRequest{
		Id:      created.Id,
		Content: strPtr("Updated Content"),
	})
	require.Error(t, err)

	// no orphaned mutation without history
	store.historyErr = nil
	res, err := svc.Show(context.Background(), owner.Id, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "Original Content", res.Content)
}

func TestShareNoteIdempotent(t *testing.T) {
	store := newMemStore()
	svc, _ := newNoteService(store)
	owner := store.addUser("alice")
	store.addUser("bob")

	created, err := svc.Create(context.Background(), owner.Id, &dto.CreateNoteRequest{
		Title:   "Test Note",
		Content: "content",
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		res, err := svc.Share(context.Background(), owner.Id, &dto.ShareNoteRequest{
			Id:        created.Id,
			Usernames: []string{"bob"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"bob"}, res.SharedWith)
	}

	require.Len(t, store.grants, 1)
	grant := store.grants[created.Id]
	assert.Len(t, store.grantees[grant.Id], 1)
}

func TestShareNoteUnknownGranteesReported(t *testing.T) {
	store := newMemStore()
	svc, _ := newNoteService(store)
	owner := store.addUser("alice")
	bob := store.addUser("bob")

	created, err := svc.Create(context.Background(), owner.Id, &dto.CreateNoteRequest{
		Title:   "Test Note",
		Content: "content",
	})
	require.NoError(t, err)

	res, err := svc.Share(context.Background(), owner.Id, &dto.ShareNoteRequest{
		Id:        created.Id,
		Usernames: []string{"bob", "ghost"},
	})
	require.NoError(t, err) // partial success, not a hard failure

	assert.Equal(t, []string{"bob"}, res.SharedWith)
	assert.Equal(t, []string{"ghost"}, res.Unresolved)

	// the resolvable grantee still got access
	grant := store.grants[created.Id]
	require.NotNil(t, grant)
	_, ok := store.grantees[grant.Id][bob.Id]
	assert.True(t, ok)
}

func TestShareNoteOwnerNeverGrantee(t *testing.T) {
	store := newMemStore()
	svc, _ := newNoteService(store)
	owner := store.addUser("alice")

	created, err := svc.Create(context.Background(), owner.Id, &dto.CreateNoteRequest{
		Title:   "Test Note",
		Content: "content",
	})
	require.NoError(t, err)

	res, err := svc.Share(context.Background(), owner.Id, &dto.ShareNoteRequest{
		Id:        created.Id,
		Usernames: []string{"alice"},
	})
	require.NoError(t, err)

	assert.Empty(t, res.SharedWith)
	assert.Empty(t, res.Unresolved)
	if grant, ok := store.grants[created.Id]; ok {
		assert.Empty(t, store.grantees[grant.Id])
	}
}

func TestHistoryAccessMatchesShow(t *testing.T) {
	store := newMemStore()
	svc, _ := newNoteService(store)
	owner := store.addUser("alice")
	grantee := store.addUser("bob")
	stranger := store.addUser("carol")

	created, err := svc.Create(context.Background(), owner.Id, &dto.CreateNoteRequest{
		Title:   "Test Note",
		Content: "v1",
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), owner.Id, &dto.UpdateNoteRequest{
		Id:      created.Id,
		Content: strPtr("v2"),
	})
	require.NoError(t, err)

	_, err = svc.Share(context.Background(), owner.Id, &dto.ShareNoteRequest{
		Id:        created.Id,
		Usernames: []string{"bob"},
	})
	require.NoError(t, err)

	entries, err := svc.History(context.Background(), grantee.Id, created.Id)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = svc.History(context.Background(), stranger.Id, created.Id)
	requireKind(t, err, apperror.KindNotFound)
}

func TestConcurrentUpdatesChainHistory(t *testing.T) {
	store := newMemStore()
	svc, _ := newNoteService(store)
	owner := store.addUser("alice")

	created, err := svc.Create(context.Background(), owner.Id, &dto.CreateNoteRequest{
		Title:   "Test Note",
		Content: "original",
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, content := range []string{"first writer", "second writer"} {
		wg.Add(1)
		go func(c string) {
			defer wg.Done()
			_, err := svc.Update(context.Background(), owner.Id, &dto.UpdateNoteRequest{
				Id:      created.Id,
				Content: strPtr(c),
			})
			assert.NoError(t, err)
		}(content)
	}
	wg.Wait()

	final := store.notes[created.Id].Content
	require.Contains(t, []string{"first writer", "second writer"}, final)

	// The row lock serializes the two updates, so each snapshot captures the
	// content its own update superseded: first the original, then whichever
	// write committed first.
	require.Len(t, store.histories, 2)
	assert.Equal(t, "original", store.histories[0].Content)
	superseded := "first writer"
	if final == "first writer" {
		superseded = "second writer"
	}
	assert.Equal(t, superseded, store.histories[1].Content)
}

func TestShareNoteAllUnknownGrantees(t *testing.T) {
	store := newMemStore()
	svc, _ := newNoteService(store)
	owner := store.addUser("alice")

	created, err := svc.Create(context.Background(), owner.Id, &dto.CreateNoteRequest{
		Title:   "Test Note",
		Content: "content",
	})
	require.NoError(t, err)

	res, err := svc.Share(context.Background(), owner.Id, &dto.ShareNoteRequest{
		Id:        created.Id,
		Usernames: []string{"ghost", "phantom"},
	})
	assert.Nil(t, res)

	var granteeErr *apperror.UnknownGranteeError
	require.ErrorAs(t, err, &granteeErr)
	assert.Equal(t, apperror.KindUnknownGrantee, granteeErr.AppKind())
	assert.Equal(t, []string{"ghost", "phantom"}, granteeErr.Usernames)

	// nothing was granted
	_, ok := store.grants[created.Id]
	assert.False(t, ok)
}

func TestShareNoteNoGranteePublishesNothing(t *testing.T) {
	store := newMemStore()
	svc, pub := newNoteService(store)
	owner := store.addUser("alice")

	created, err := svc.Create(context.Background(), owner.Id, &dto.CreateNoteRequest{
		Title:   "Test Note",
		Content: "content",
	})
	require.NoError(t, err)
	before := pub.count()

	// owner-only share adds no grantee, nothing to announce
	_, err = svc.Share(context.Background(), owner.Id, &dto.ShareNoteRequest{
		Id:        created.Id,
		Usernames: []string{"alice"},
	})
	require.NoError(t, err)
	assert.Equal(t, before, pub.count())

	// a real grantee still announces the share
	store.addUser("bob")
	_, err = svc.Share(context.Background(), owner.Id, &dto.ShareNoteRequest{
		Id:        created.Id,
		Usernames: []string{"bob"},
	})
	require.NoError(t, err)
	assert.Equal(t, before+1, pub.count())
}
