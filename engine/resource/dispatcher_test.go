package resource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDispatcher(
	t *testing.T,
	backend *fakeBackend,
	confirmer Confirmer,
) (*Dispatcher[company, companyInput], *Controller[company], *Recorder) {
	t.Helper()
	rec := &Recorder{}
	ctrl := NewController(backend.List, WithNotifier(rec))
	ctrl.Load(t.Context())
	d := NewDispatcher[company, companyInput]("Company", backend, ctrl,
		WithConfirmer[company, companyInput](confirmer),
		WithDispatchNotifier[company, companyInput](rec),
	)
	return d, ctrl, rec
}

func TestDispatcher_Create(t *testing.T) {
	t.Run("Should notify, refetch, and grow the collection by one", func(t *testing.T) {
		backend := newFakeBackend(company{ID: 1, Name: "Acme"}, company{ID: 2, Name: "Globex"})
		d, ctrl, rec := setupDispatcher(t, backend, nil)
		before := len(ctrl.State().Items)

		created, err := d.Create(t.Context(), companyInput{Name: "Initech", City: "Sousse"})

		require.NoError(t, err)
		state := ctrl.State()
		assert.Len(t, state.Items, before+1)
		assert.Contains(t, ids(state.Items), created.ID)
		last, _ := rec.Last()
		assert.Equal(t, Notification{Level: LevelSuccess, Message: `Company "Initech" created successfully.`}, last)
		assert.Equal(t, []string{"GET /companies", "POST /companies", "GET /companies"}, backend.Requests())
	})

	t.Run("Should leave the displayed state untouched on failure", func(t *testing.T) {
		backend := newFakeBackend(company{ID: 1, Name: "Acme"})
		d, ctrl, rec := setupDispatcher(t, backend, nil)
		before := ctrl.State()
		backend.failWith = &statusErr{code: 400, msg: "Company name already exists"}

		_, err := d.Create(t.Context(), companyInput{Name: "Acme"})

		require.Error(t, err)
		assert.Equal(t, before, ctrl.State())
		last, _ := rec.Last()
		assert.Equal(t, Notification{Level: LevelError, Message: "Failed to create company: Company name already exists"}, last)
	})
}

func TestDispatcher_Update(t *testing.T) {
	t.Run("Should refetch instead of patching local items", func(t *testing.T) {
		backend := newFakeBackend(company{ID: 1, Name: "Acme"})
		var reloads int
		d, ctrl, _ := setupDispatcher(t, backend, nil)
		ctrl.Subscribe(func(s State[company]) {
			if s.Loaded() {
				reloads++
			}
		})

		_, err := d.Update(t.Context(), "1", companyInput{Name: "Acme Corp"})

		require.NoError(t, err)
		assert.Equal(t, 1, reloads)
		assert.Equal(t, "Acme Corp", ctrl.State().Items[0].Name)
	})

	t.Run("Should report the backend message for an unknown id", func(t *testing.T) {
		backend := newFakeBackend(company{ID: 1, Name: "Acme"})
		d, _, rec := setupDispatcher(t, backend, nil)

		_, err := d.Update(t.Context(), "7", companyInput{Name: "Ghost"})

		var se StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, 404, se.StatusCode())
		last, _ := rec.Last()
		assert.Equal(t, "Failed to update company 7: Company not found with id: 7", last.Message)
	})
}

func TestDispatcher_Delete(t *testing.T) {
	t.Run("Should confirm with the label, delete, and refetch", func(t *testing.T) {
		backend := newFakeBackend(company{ID: 1, Name: "Acme"}, company{ID: 5, Name: "Globex"})
		var prompt string
		confirm := ConfirmFunc(func(_ context.Context, p string) (bool, error) {
			prompt = p
			return true, nil
		})
		d, ctrl, rec := setupDispatcher(t, backend, confirm)

		err := d.Delete(t.Context(), company{ID: 5, Name: "Globex"})

		require.NoError(t, err)
		assert.Equal(t, `Are you sure you want to delete "Globex"?`, prompt)
		assert.Equal(t, []string{"GET /companies", "DELETE /companies/5", "GET /companies"}, backend.Requests())
		assert.NotContains(t, ids(ctrl.State().Items), 5)
		last, _ := rec.Last()
		assert.Equal(t, `Company "Globex" deleted successfully.`, last.Message)
	})

	t.Run("Should issue nothing when the user declines", func(t *testing.T) {
		backend := newFakeBackend(company{ID: 1, Name: "Acme"})
		decline := ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })
		d, _, rec := setupDispatcher(t, backend, decline)

		err := d.Delete(t.Context(), company{ID: 1, Name: "Acme"})

		assert.ErrorIs(t, err, ErrCanceled)
		assert.Equal(t, []string{"GET /companies"}, backend.Requests())
		assert.Empty(t, rec.Notifications())
	})

	t.Run("Should refuse to delete without a confirmer", func(t *testing.T) {
		backend := newFakeBackend(company{ID: 1, Name: "Acme"})
		d, _, _ := setupDispatcher(t, backend, nil)

		err := d.Delete(t.Context(), company{ID: 1, Name: "Acme"})

		assert.ErrorIs(t, err, ErrConfirmationRequired)
		assert.Len(t, backend.Requests(), 1)
	})

	t.Run("Should keep the item visible when the backend denies the delete", func(t *testing.T) {
		backend := newFakeBackend(company{ID: 1, Name: "Acme"})
		d, ctrl, rec := setupDispatcher(t, backend, AlwaysConfirm)
		backend.failWith = &statusErr{code: 403, msg: "Access Denied"}

		err := d.Delete(t.Context(), company{ID: 1, Name: "Acme"})

		require.Error(t, err)
		assert.Equal(t, []int{1}, ids(ctrl.State().Items))
		last, _ := rec.Last()
		assert.Equal(t, `Failed to delete company "Acme": request failed`, last.Message)
	})

	t.Run("Should wrap confirmer errors", func(t *testing.T) {
		backend := newFakeBackend(company{ID: 1, Name: "Acme"})
		broken := ConfirmFunc(func(context.Context, string) (bool, error) { return false, assert.AnError })
		d, _, _ := setupDispatcher(t, backend, broken)

		err := d.Delete(t.Context(), company{ID: 1, Name: "Acme"})

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestDispatcher_Run(t *testing.T) {
	t.Run("Should reject a second mutation while one is running", func(t *testing.T) {
		backend := newFakeBackend()
		d, _, _ := setupDispatcher(t, backend, nil)
		entered := make(chan struct{})
		release := make(chan struct{})
		done := make(chan error, 1)
		go func() {
			done <- d.Run(context.Background(), Operation{
				Success: "ok",
				Failure: "failed",
				Do: func(context.Context) error {
					close(entered)
					<-release
					return nil
				},
			})
		}()
		<-entered

		err := d.Run(t.Context(), Operation{Do: func(context.Context) error { return nil }})

		assert.ErrorIs(t, err, ErrMutationInProgress)
		close(release)
		assert.NoError(t, <-done)
	})

	t.Run("Should run custom operations with their own messages", func(t *testing.T) {
		backend := newFakeBackend(company{ID: 1, Name: "Acme"})
		d, _, rec := setupDispatcher(t, backend, nil)

		err := d.Run(t.Context(), Operation{
			Success: "Role updated to ADMIN.",
			Failure: "Failed to update role",
			Do:      func(context.Context) error { return errors.New("connection reset") },
		})

		require.Error(t, err)
		last, _ := rec.Last()
		assert.Equal(t, "Failed to update role: request failed", last.Message)
	})
}
