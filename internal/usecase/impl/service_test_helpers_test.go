package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"

	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string {
	return &s
}

// txRepos are the repositories handed out inside a mocked transaction.
type txRepos struct {
	accountRepo *mockRepo.MockAccountRepository
	catalogRepo *mockRepo.MockCatalogRepository
}

// expectTransaction makes txManager run the callback once against fresh repository mocks.
func expectTransaction(t *testing.T, txManager *mockRepo.MockTransactionManager) txRepos {
	t.Helper()

	repos := txRepos{
		accountRepo: mockRepo.NewMockAccountRepository(t),
		catalogRepo: mockRepo.NewMockCatalogRepository(t),
	}

	factory := mockRepo.NewMockRepositoryFactory(t)
	factory.EXPECT().NewAccountRepository().Return(repos.accountRepo).Maybe()
	factory.EXPECT().NewCatalogRepository().Return(repos.catalogRepo).Maybe()

	txManager.EXPECT().
		Execute(mock.Anything, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(factory)
		}).
		Once()

	return repos
}
