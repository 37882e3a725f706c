package posts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkalnins/gallery/internal/common"
	"github.com/pkalnins/gallery/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func postRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "caption", "image_key", "image_url", "owner_id", "created_at"})
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+posts\s*\(caption,\s*image_key,\s*image_url,\s*owner_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id,\s*created_at\s*$`

	created := time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow("p-1", created)
	mock.ExpectQuery(q).
		WithArgs("", "gallery/2026/8/2/key", "http://minio/gallery/gallery/2026/8/2/key", "u-1").
		WillReturnRows(rows)

	p := &models.Post{
		Caption:  "",
		ImageKey: "gallery/2026/8/2/key",
		ImageURL: "http://minio/gallery/gallery/2026/8/2/key",
		OwnerID:  "u-1",
	}
	got, err := repo.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "p-1" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected post: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+posts`

	mock.ExpectQuery(q).
		WithArgs("c", "k", "u", "u-1").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Post{Caption: "c", ImageKey: "k", ImageURL: "u", OwnerID: "u-1"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,.*FROM\s+posts\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestListByIDs_PreservesOrder(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,.*FROM\s+posts\s+WHERE\s+id\s*=\s*ANY\(\$1::uuid\[\]\)\s+ORDER\s+BY\s+array_position\(\$1::uuid\[\],\s*id\)\s*$`

	rows := postRows().
		AddRow("p-2", "second", "k2", "u2", "u-1", time.Now()).
		AddRow("p-1", "first", "k1", "u1", "u-1", time.Now())
	mock.ExpectQuery(q).
		WithArgs("{p-2,p-1}").
		WillReturnRows(rows)

	got, err := repo.ListByIDs(context.Background(), []string{"p-2", "p-1"})
	if err != nil {
		t.Fatalf("ListByIDs error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "p-2" || got[1].ID != "p-1" {
		t.Fatalf("unexpected posts: %+v", got)
	}
}

func TestListByIDs_Empty(t *testing.T) {
	repo, _, db := newRepoWithMock(t)
	defer db.Close()

	got, err := repo.ListByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListByIDs error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil result, got %+v", got)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+posts\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "p-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+posts`

	mock.ExpectExec(q).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestSearchByCaption(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,.*FROM\s+posts\s+WHERE\s+owner_id\s*=\s*\$1\s+AND\s+caption\s+ILIKE\s+'%'\s*\|\|\s*\$2\s*\|\|\s*'%'\s+ORDER\s+BY\s+created_at\s+DESC\s*$`

	rows := postRows().
		AddRow("p-3", "sunset at the beach", "k3", "u3", "u-1", time.Now())
	mock.ExpectQuery(q).
		WithArgs("u-1", "sunset").
		WillReturnRows(rows)

	got, err := repo.SearchByCaption(context.Background(), "u-1", "sunset")
	if err != nil {
		t.Fatalf("SearchByCaption error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "p-3" {
		t.Fatalf("unexpected posts: %+v", got)
	}
}
