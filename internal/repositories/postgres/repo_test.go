package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/clintmariano/careerlog/internal/models"
	"github.com/clintmariano/careerlog/internal/repositories/postgres"
	"github.com/clintmariano/careerlog/internal/testutil"
	"github.com/clintmariano/careerlog/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedApplication(t *testing.T, store *postgres.Store, userID, company, title string, date time.Time, status models.ApplicationStatus) *models.Application {
	t.Helper()
	app, err := models.NewApplication(userID, models.ApplicationFields{
		CompanyName: company,
		JobTitle:    title,
		Location:    "Remote",
		Status:      status,
	}, &date, date)
	require.NoError(t, err)
	require.NoError(t, store.Applications.Insert(context.Background(), &app))
	require.NotZero(t, app.ID)
	return &app
}

func seedActivity(t *testing.T, store *postgres.Store, appID int64, typ models.ActivityType, at time.Time) *models.Activity {
	t.Helper()
	act, err := models.NewActivity(appID, models.ActivityFields{Type: typ, DateTime: &at}, at)
	require.NoError(t, err)
	require.NoError(t, store.Activities.Insert(context.Background(), &act))
	return &act
}

func seedAttachment(t *testing.T, store *postgres.Store, appID int64, typ models.AttachmentType, name string) *models.Attachment {
	t.Helper()
	att, err := models.NewAttachment(appID, models.AttachmentFields{
		Type:     typ,
		FileName: name,
		BlobURL:  "https://blobs.example/" + name,
	}, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Attachments.Insert(context.Background(), &att))
	return &att
}

func TestApplicationRepo_OwnershipScopedReads(t *testing.T) {
	ctx := context.Background()
	store := postgres.NewStore(testutil.OpenDB(t))

	app := seedApplication(t, store, "alice", "Acme", "Engineer", day(2024, 1, 10), models.StatusApplied)

	got, err := store.Applications.GetOwned(ctx, "alice", app.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.CompanyName)
	assert.Equal(t, day(2024, 1, 10), got.Day().UTC())

	_, err = store.Applications.GetOwned(ctx, "bob", app.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = store.Applications.GetOwned(ctx, "alice", app.ID+100)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestApplicationRepo_DuplicateCompanyTitle(t *testing.T) {
	ctx := context.Background()
	store := postgres.NewStore(testutil.OpenDB(t))

	first := seedApplication(t, store, "alice", "Acme", "Engineer", day(2024, 1, 10), "")

	exists, err := store.Applications.ExistsCompanyTitle(ctx, "alice", "Acme", "Engineer", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.Applications.ExistsCompanyTitle(ctx, "alice", "Acme", "Engineer", first.ID)
	require.NoError(t, err)
	assert.False(t, exists, "the row itself is excluded")

	exists, err = store.Applications.ExistsCompanyTitle(ctx, "bob", "Acme", "Engineer", 0)
	require.NoError(t, err)
	assert.False(t, exists)

	dup, err := models.NewApplication("alice", models.ApplicationFields{CompanyName: "Acme", JobTitle: "Engineer"}, nil, time.Now())
	require.NoError(t, err)
	assert.ErrorIs(t, store.Applications.Insert(ctx, &dup), utils.ErrDuplicate)
}

func TestApplicationRepo_UpdateKeepsImmutableColumns(t *testing.T) {
	ctx := context.Background()
	store := postgres.NewStore(testutil.OpenDB(t))

	app := seedApplication(t, store, "alice", "Acme", "Engineer", day(2024, 1, 10), "")

	patched, err := app.Patch(models.ApplicationFields{
		CompanyName: "Acme Corp",
		JobTitle:    "Senior Engineer",
		Status:      models.StatusOffer,
		Description: "went well",
	})
	require.NoError(t, err)
	patched.UserID = "mallory"
	patched.ApplicationDate = models.DateOf(day(2030, 1, 1))
	require.NoError(t, store.Applications.Update(ctx, &patched))

	got, err := store.Applications.GetOwned(ctx, "alice", app.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.CompanyName)
	assert.Equal(t, models.StatusOffer, got.Status)
	assert.Equal(t, "", got.Location)
	assert.Equal(t, day(2024, 1, 10), got.Day().UTC())
	assert.Equal(t, "alice", got.UserID)
}

func TestApplicationRepo_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := postgres.NewStore(testutil.OpenDB(t))

	app := seedApplication(t, store, "alice", "Acme", "Engineer", day(2024, 1, 10), "")
	act := seedActivity(t, store, app.ID, models.ActivityPhoneScreen, time.Now())
	att := seedAttachment(t, store, app.ID, models.AttachmentResume, "cv.pdf")

	require.NoError(t, store.InTx(ctx, func(r postgres.Repos) error {
		return r.Applications.Delete(ctx, app.ID)
	}))

	_, err := store.Activities.GetOwned(ctx, "alice", act.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
	_, err = store.Attachments.GetOwned(ctx, "alice", att.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.ErrorIs(t, store.Applications.Delete(ctx, app.ID), utils.ErrNotFound)
}

func TestApplicationRepo_ListSearchSortPage(t *testing.T) {
	ctx := context.Background()
	store := postgres.NewStore(testutil.OpenDB(t))

	seedApplication(t, store, "alice", "Acme", "Engineer", day(2024, 1, 1), "")
	seedApplication(t, store, "alice", "Globex", "Data Engineer", day(2024, 1, 2), "")
	seedApplication(t, store, "alice", "Initech", "Manager", day(2024, 1, 3), "")
	seedApplication(t, store, "bob", "Acme", "Engineer", day(2024, 1, 4), "")

	rows, total, err := store.Applications.List(ctx, "alice", postgres.ListQuery{Size: 2, SortBy: "application_date", Desc: true})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Initech", rows[0].CompanyName)
	assert.Equal(t, "Globex", rows[1].CompanyName)

	rows, _, err = store.Applications.List(ctx, "alice", postgres.ListQuery{Page: 1, Size: 2, SortBy: "application_date", Desc: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Acme", rows[0].CompanyName)

	rows, total, err = store.Applications.List(ctx, "alice", postgres.ListQuery{Search: "ENGINEER", Size: 10, SortBy: "company_name"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme", rows[0].CompanyName)
	assert.Equal(t, "Globex", rows[1].CompanyName)

	rows, total, err = store.Applications.List(ctx, "alice", postgres.ListQuery{Search: "remote", Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total, "location is searched too")
	assert.Len(t, rows, 3)
}

func TestApplicationRepo_Aggregates(t *testing.T) {
	ctx := context.Background()
	store := postgres.NewStore(testutil.OpenDB(t))

	seedApplication(t, store, "alice", "A", "x", day(2024, 1, 8), models.StatusApplied)   // Monday
	seedApplication(t, store, "alice", "B", "x", day(2024, 1, 14), models.StatusApplied)  // Sunday, same week
	seedApplication(t, store, "alice", "C", "x", day(2024, 1, 15), models.StatusRejected) // next Monday
	seedApplication(t, store, "alice", "D", "x", day(2019, 6, 1), models.StatusOffer)
	seedApplication(t, store, "bob", "E", "x", day(2024, 1, 9), models.StatusOffer)

	total, err := store.Applications.CountSince(ctx, "alice", day(2020, 1, 1))
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	breakdown, err := store.Applications.StatusBreakdown(ctx, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []postgres.StatusCount{
		{Status: models.StatusApplied, Count: 2},
		{Status: models.StatusOffer, Count: 1},
		{Status: models.StatusRejected, Count: 1},
	}, breakdown)

	weeks, err := store.Applications.WeeklyCounts(ctx, "alice", day(2024, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, []postgres.WeekCount{
		{WeekStart: "2024-01-08", Count: 2},
		{WeekStart: "2024-01-15", Count: 1},
	}, weeks)

	empty, err := store.Applications.StatusBreakdown(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestActivityRepo_TransitiveOwnership(t *testing.T) {
	ctx := context.Background()
	store := postgres.NewStore(testutil.OpenDB(t))

	app := seedApplication(t, store, "alice", "Acme", "Engineer", day(2024, 1, 10), "")
	act := seedActivity(t, store, app.ID, models.ActivityPhoneScreen, time.Now())

	got, err := store.Activities.GetOwned(ctx, "alice", act.ID)
	require.NoError(t, err)
	assert.Equal(t, app.ID, got.ApplicationID)

	_, err = store.Activities.GetOwned(ctx, "bob", act.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	rows, err := store.Activities.ListByApplication(ctx, "bob", app.ID, "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestActivityRepo_ListAndBreakdown(t *testing.T) {
	ctx := context.Background()
	store := postgres.NewStore(testutil.OpenDB(t))

	base := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	app := seedApplication(t, store, "alice", "Acme", "Engineer", day(2024, 1, 10), "")
	other := seedApplication(t, store, "bob", "Globex", "Engineer", day(2024, 1, 10), "")

	seedActivity(t, store, app.ID, models.ActivityApplicationSubmitted, base)
	seedActivity(t, store, app.ID, models.ActivityPhoneScreen, base.Add(24*time.Hour))
	latest := seedActivity(t, store, app.ID, models.ActivityPhoneScreen, base.Add(48*time.Hour))
	seedActivity(t, store, other.ID, models.ActivityOfferCall, base.Add(72*time.Hour))

	recent, err := store.Activities.ListByUser(ctx, "alice", nil, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, latest.ID, recent[0].ID)
	assert.Equal(t, "Acme", recent[0].CompanyName)
	assert.Equal(t, "Engineer", recent[0].JobTitle)

	since := base.Add(12 * time.Hour)
	recent, err = store.Activities.ListByUser(ctx, "alice", &since, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	screens, err := store.Activities.ListByApplication(ctx, "alice", app.ID, models.ActivityPhoneScreen)
	require.NoError(t, err)
	assert.Len(t, screens, 2)

	breakdown, err := store.Activities.TypeBreakdown(ctx, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []postgres.ActivityTypeCount{
		{Type: models.ActivityApplicationSubmitted, Count: 1},
		{Type: models.ActivityPhoneScreen, Count: 2},
	}, breakdown)

	n, err := store.Activities.CountByType(ctx, "alice", models.ActivityPhoneScreen)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = store.Activities.CountByType(ctx, "alice", models.ActivityOfferCall)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAttachmentRepo_QueriesAreOwnerScoped(t *testing.T) {
	ctx := context.Background()
	store := postgres.NewStore(testutil.OpenDB(t))

	app := seedApplication(t, store, "alice", "Acme", "Engineer", day(2024, 1, 10), "")
	seedAttachment(t, store, app.ID, models.AttachmentResume, "cv.pdf")
	seedAttachment(t, store, app.ID, models.AttachmentCoverLetter, "letter.pdf")
	seedAttachment(t, store, app.ID, models.AttachmentResume, "cv-v2.pdf")

	n, err := store.Attachments.CountByApplication(ctx, "alice", app.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = store.Attachments.CountByApplication(ctx, "bob", app.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	exists, err := store.Attachments.ExistsFileName(ctx, "alice", app.ID, "cv.pdf")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.Attachments.ExistsFileName(ctx, "bob", app.ID, "cv.pdf")
	require.NoError(t, err)
	assert.False(t, exists)

	breakdown, err := store.Attachments.TypeBreakdown(ctx, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []postgres.AttachmentTypeCount{
		{Type: models.AttachmentCoverLetter, Count: 1},
		{Type: models.AttachmentResume, Count: 2},
	}, breakdown)

	resumes, err := store.Attachments.ListByApplication(ctx, "alice", app.ID, models.AttachmentResume)
	require.NoError(t, err)
	assert.Len(t, resumes, 2)

	all, err := store.Attachments.ListByUser(ctx, "alice", 2)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStore_InTxRollsBack(t *testing.T) {
	ctx := context.Background()
	store := postgres.NewStore(testutil.OpenDB(t))

	app := seedApplication(t, store, "alice", "Acme", "Engineer", day(2024, 1, 10), "")

	err := store.InTx(ctx, func(r postgres.Repos) error {
		if err := r.Applications.Delete(ctx, app.ID); err != nil {
			return err
		}
		return utils.ErrDuplicate
	})
	require.ErrorIs(t, err, utils.ErrDuplicate)

	_, err = store.Applications.GetOwned(ctx, "alice", app.ID)
	assert.NoError(t, err)
}
