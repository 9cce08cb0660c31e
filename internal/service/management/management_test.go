package management

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/avdeev/bankacc/internal/apperrors"
	"github.com/avdeev/bankacc/internal/models"
	"github.com/avdeev/bankacc/internal/repository"
	"github.com/avdeev/bankacc/internal/repository/postgres"
	"github.com/avdeev/bankacc/internal/service/locker"
	"github.com/avdeev/bankacc/internal/testutil"
)

func TestManagementService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, fn func(s *ManagementService, storage repository.Storage)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			fn(NewService(storage, locker.New()), storage)
		})
	}

	draft := func(number int64, balance int64) models.Account {
		return models.Account{
			Number:  number,
			Balance: decimal.NewFromInt(balance),
			Tier:    models.TierBasic,
		}
	}

	t.Run("CreateAccount", func(t *testing.T) {
		t.Run("create ok", func(t *testing.T) {
			inTx(t, func(s *ManagementService, _ repository.Storage) {
				account, err := s.CreateAccount(t.Context(), draft(1, 500))

				require.NoError(t, err, "creating new account should be ok")
				require.Equal(t, int64(1), account.Number)
				require.True(t, account.Balance.Equal(decimal.NewFromInt(500)))
				require.Empty(t, account.Transactions, "new account starts with empty history")
			})
		})

		t.Run("defaults to basic tier", func(t *testing.T) {
			inTx(t, func(s *ManagementService, _ repository.Storage) {
				account, err := s.CreateAccount(t.Context(), models.Account{Number: 1, Balance: decimal.Zero})

				require.NoError(t, err)
				require.Equal(t, models.TierBasic, account.Tier)
			})
		})

		t.Run("create duplicate fail", func(t *testing.T) {
			inTx(t, func(s *ManagementService, _ repository.Storage) {
				_, err := s.CreateAccount(t.Context(), draft(1, 500))
				require.NoError(t, err, "first account creation should succeed")

				_, err = s.CreateAccount(t.Context(), draft(1, 900))

				require.Error(t, err, "creating duplicate account should fail")
				require.ErrorIs(t, err, apperrors.ErrAccountAlreadyExists)
			})
		})
	})

	t.Run("RemoveAccount", func(t *testing.T) {
		t.Run("soft delete ok", func(t *testing.T) {
			inTx(t, func(s *ManagementService, storage repository.Storage) {
				_, err := s.CreateAccount(t.Context(), draft(1, 500))
				require.NoError(t, err)

				err = s.RemoveAccount(t.Context(), 1)

				require.NoError(t, err)

				stored, err := storage.Accounts().GetAny(t.Context(), 1)
				require.NoError(t, err, "soft deleted account stays readable")
				require.NotNil(t, stored.DeletedAt, "delete marker should be set")

				_, err = storage.Accounts().GetActive(t.Context(), 1)
				require.ErrorIs(t, err, apperrors.ErrAccountNotFound, "soft deleted account is not active anymore")
			})
		})

		t.Run("not existed fail", func(t *testing.T) {
			inTx(t, func(s *ManagementService, _ repository.Storage) {
				err := s.RemoveAccount(t.Context(), 404)

				require.ErrorIs(t, err, apperrors.ErrAccountNotFound)
			})
		})

		t.Run("remove twice fail", func(t *testing.T) {
			inTx(t, func(s *ManagementService, _ repository.Storage) {
				_, err := s.CreateAccount(t.Context(), draft(1, 500))
				require.NoError(t, err)

				err = s.RemoveAccount(t.Context(), 1)
				require.NoError(t, err, "first removal should succeed")

				err = s.RemoveAccount(t.Context(), 1)

				require.ErrorIs(t, err, apperrors.ErrAccountAlreadyDeleted)
			})
		})
	})

	t.Run("ReclassifyTier", func(t *testing.T) {
		t.Run("flips tier by balance", func(t *testing.T) {
			inTx(t, func(s *ManagementService, storage repository.Storage) {
				_, err := s.CreateAccount(t.Context(), draft(1, 500))
				require.NoError(t, err)

				err = s.ReclassifyTier(t.Context(), 1, decimal.NewFromInt(1500))
				require.NoError(t, err)

				stored, err := storage.Accounts().GetActive(t.Context(), 1)
				require.NoError(t, err)
				require.Equal(t, models.TierGold, stored.Tier)
			})
		})

		t.Run("idempotent", func(t *testing.T) {
			inTx(t, func(s *ManagementService, storage repository.Storage) {
				_, err := s.CreateAccount(t.Context(), draft(1, 500))
				require.NoError(t, err)

				balance := decimal.NewFromInt(1500)
				require.NoError(t, s.ReclassifyTier(t.Context(), 1, balance))
				require.NoError(t, s.ReclassifyTier(t.Context(), 1, balance))

				stored, err := storage.Accounts().GetActive(t.Context(), 1)
				require.NoError(t, err)
				require.Equal(t, models.TierGold, stored.Tier, "reclassifying twice with the same balance yields the same tier")
			})
		})

		t.Run("vanished account fail", func(t *testing.T) {
			inTx(t, func(s *ManagementService, _ repository.Storage) {
				err := s.ReclassifyTier(t.Context(), 404, decimal.NewFromInt(100))

				require.ErrorIs(t, err, apperrors.ErrAccountNotFound)
			})
		})
	})

	t.Run("aggregates", func(t *testing.T) {
		inTx(t, func(s *ManagementService, storage repository.Storage) {
			_, err := s.CreateAccount(t.Context(), draft(1, 100))
			require.NoError(t, err)
			_, err = s.CreateAccount(t.Context(), draft(2, 200))
			require.NoError(t, err)
			_, err = s.CreateAccount(t.Context(), draft(3, 300))
			require.NoError(t, err)
			require.NoError(t, s.RemoveAccount(t.Context(), 3))

			t.Run("CountAccounts skips deleted", func(t *testing.T) {
				count, err := s.CountAccounts(t.Context())

				require.NoError(t, err)
				require.Equal(t, 2, count)
			})

			t.Run("TotalBalance skips deleted", func(t *testing.T) {
				total, err := s.TotalBalance(t.Context())

				require.NoError(t, err)
				require.True(t, total.Equal(decimal.NewFromInt(300)), "total should sum active balances only, got %s", total)
			})

			t.Run("ListAccounts skips deleted", func(t *testing.T) {
				accounts, err := s.ListAccounts(t.Context())

				require.NoError(t, err)
				require.Len(t, accounts, 2)
			})

			t.Run("ListDeletedAccounts", func(t *testing.T) {
				accounts, err := s.ListDeletedAccounts(t.Context())

				require.NoError(t, err)
				require.Len(t, accounts, 1)
				require.Equal(t, int64(3), accounts[0].Number)
			})
		})
	})

	t.Run("ListAllTransactions", func(t *testing.T) {
		inTx(t, func(s *ManagementService, storage repository.Storage) {
			account, err := s.CreateAccount(t.Context(), draft(1, 100))
			require.NoError(t, err)

			account.Transactions = append(account.Transactions, models.Transaction{
				AccountNumber: 1,
				Amount:        decimal.NewFromInt(50),
				Kind:          models.TransactionKindDeposit,
			})
			_, err = storage.Accounts().Replace(t.Context(), account)
			require.NoError(t, err)

			transactions, err := s.ListAllTransactions(t.Context())

			require.NoError(t, err)
			require.Len(t, transactions, 1)
			require.Equal(t, int64(1), transactions[0].AccountNumber)
		})
	})
}
