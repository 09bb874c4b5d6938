package session

import (
	"context"

	"github.com/stretchr/testify/mock"

	"src.deck.sh/pkg/model"
	"src.deck.sh/pkg/store/storedefs"
)

type mockStore struct {
	mock.Mock
}

var _ storedefs.Store = (*mockStore)(nil)

func (m *mockStore) LoadDocument(ctx context.Context, id string) (*model.Presentation, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(*model.Presentation)
	return doc, args.Error(1)
}

func (m *mockStore) SaveDocument(ctx context.Context, doc *model.Presentation) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *mockStore) ListDocuments(ctx context.Context) ([]storedefs.DocumentInfo, error) {
	args := m.Called(ctx)
	infos, _ := args.Get(0).([]storedefs.DocumentInfo)
	return infos, args.Error(1)
}

func (m *mockStore) DeleteDocument(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) UploadAsset(ctx context.Context, data []byte) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Asset(ctx context.Context, ref string) ([]byte, error) {
	args := m.Called(ctx, ref)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}
