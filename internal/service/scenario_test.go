package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAliceAndBobShareScifi(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "alice", "wonderland")
	require.NoError(t, err)
	aliceTok, err := f.svc.Login(ctx, "alice", "wonderland")
	require.NoError(t, err)
	alice, err := f.svc.Authenticate(ctx, aliceTok.AccessToken)
	require.NoError(t, err)

	dune, err := f.svc.CreateBook(ctx, alice.ID, BookInput{Title: "Dune", Author: "Herbert", Rating: 5, Tags: []string{"scifi"}})
	require.NoError(t, err)
	require.Equal(t, 1, dune.ID)
	require.Len(t, dune.Tags, 1)
	require.Equal(t, 1, dune.Tags[0].ID)
	require.Equal(t, "scifi", dune.Tags[0].Name)
	require.Equal(t, alice.ID, dune.Tags[0].OwnerID)

	_, err = f.svc.Register(ctx, "bob", "builder")
	require.NoError(t, err)
	bobTok, err := f.svc.Login(ctx, "bob", "builder")
	require.NoError(t, err)
	bob, err := f.svc.Authenticate(ctx, bobTok.AccessToken)
	require.NoError(t, err)

	foundation, err := f.svc.CreateBook(ctx, bob.ID, BookInput{Title: "Foundation", Author: "Asimov", Tags: []string{"scifi"}})
	require.NoError(t, err)
	require.Equal(t, 2, foundation.ID)
	require.Equal(t, 1, foundation.Tags[0].ID)
	require.Equal(t, alice.ID, foundation.Tags[0].OwnerID)

	books, err := f.svc.ListBooks(ctx, Page{})
	require.NoError(t, err)
	require.Len(t, books, 2)
	for _, b := range books {
		require.Equal(t, 1, b.Tags[0].ID)
	}
	_, _, tags, _ := f.store.Counts()
	require.Equal(t, 1, tags)
}
