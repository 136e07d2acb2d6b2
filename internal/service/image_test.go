package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pageza/foodgram/backend/internal/exceptions"
	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestImageServiceSavesToDisk(t *testing.T) {
	root := t.TempDir()
	images := service.NewImageService(service.NewDiskImageStore(root, "/media/"))
	ctx := context.Background()

	url, err := images.Save(ctx, testhelpers.PNGDataURI)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/media/recipes/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	path := filepath.Join(root, "recipes", filepath.Base(url))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data[:4]))

	images.Remove(ctx, url)
	assert.NoFileExists(t, path)

	// Removing twice is harmless
	images.Remove(ctx, url)
}

func TestImageServiceRejectsBadPayloads(t *testing.T) {
	images := service.NewImageService(service.NewDiskImageStore(t.TempDir(), "/media"))

	for name, payload := range map[string]string{
		"plain url":   "https://example.com/cat.png",
		"no base64":   "data:image/png,rawbytes",
		"bad base64":  "data:image/png;base64,!!!",
		"empty":       "data:image/png;base64,",
		"not a image": "data:image/png;base64,PGh0bWw+PC9odG1sPg==",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := images.Save(context.Background(), payload)
			var ve *exceptions.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.FieldMap(), "image")
		})
	}
}

func TestImageServiceStoreFailure(t *testing.T) {
	store := &mocks.MockImageStore{}
	store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "recipes/") && strings.HasSuffix(key, ".png")
	}), "image/png", mock.Anything).Return("", errors.New("bucket unavailable"))

	_, err := service.NewImageService(store).Save(context.Background(), testhelpers.PNGDataURI)
	require.Error(t, err)
	assert.Equal(t, 500, exceptions.Status(err))
	store.AssertExpectations(t)
}

func TestImageServiceRemoveUsesKey(t *testing.T) {
	store := &mocks.MockImageStore{}
	store.On("Delete", mock.Anything, "recipes/abc.png").Return(errors.New("gone"))

	service.NewImageService(store).Remove(context.Background(), "https://bucket.s3.amazonaws.com/recipes/abc.png")
	store.AssertExpectations(t)
}

func TestOwnerOrStaff(t *testing.T) {
	f := newFixture(t, nil)
	policy := service.OwnerOrStaff{}

	assert.True(t, policy.CanMutate(f.author.ID, false, f.author.ID))
	assert.False(t, policy.CanMutate(f.reader.ID, false, f.author.ID))
	assert.True(t, policy.CanMutate(f.reader.ID, true, f.author.ID))
}
