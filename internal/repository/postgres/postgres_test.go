package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"revisionHub/internal/config"
	"revisionHub/internal/logger"
	"revisionHub/internal/models/calendar"
	"revisionHub/internal/models/user"
	"revisionHub/internal/repository"
	"revisionHub/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresTestSuite для интеграционных тестов с PostgreSQL
type PostgresTestSuite struct {
	suite.Suite
	container  testcontainers.Container
	storage    *postgres.Storage
	connString string
	ctx        context.Context
}

var reference = time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

func (s *PostgresTestSuite) SetupSuite() {
	s.ctx = context.Background()
	logger.Init(true)

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(s.ctx, "5432")
	s.Require().NoError(err)

	s.connString = fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	s.storage, err = postgres.New(s.ctx, config.DatabaseConfig{
		URL:            s.connString,
		MaxConnections: 5,
		MinConnections: 1,
		IdleTimeout:    time.Minute,
	})
	s.Require().NoError(err)
	s.Require().NoError(s.storage.Migrate(s.ctx))
}

func (s *PostgresTestSuite) TearDownSuite() {
	if s.storage != nil {
		s.storage.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

// SetupTest очищает таблицы перед каждым тестом
func (s *PostgresTestSuite) SetupTest() {
	conn, err := pgx.Connect(s.ctx, s.connString)
	s.Require().NoError(err)
	defer conn.Close(s.ctx)

	_, err = conn.Exec(s.ctx, "TRUNCATE user_calendars, users")
	s.Require().NoError(err)
}

func (s *PostgresTestSuite) TestHealthCheck() {
	s.NoError(s.storage.HealthCheck(s.ctx))
}

func (s *PostgresTestSuite) TestMigrateIsIdempotent() {
	s.NoError(s.storage.Migrate(s.ctx))
}

func (s *PostgresTestSuite) TestGetMissingCollection() {
	_, err := s.storage.Get(s.ctx, uuid.New())
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *PostgresTestSuite) TestSaveAndGetCollection() {
	userID := uuid.New()
	collection := calendar.NewCollection(reference)
	_, err := collection.AddTasks("2024-03-10", []string{"Read ch.1", "Read ch.2"})
	s.Require().NoError(err)
	_, err = collection.AddTask("2024-03-10", "Solve problems", calendar.WithCategory("codeforces"))
	s.Require().NoError(err)
	s.Require().NoError(collection.SetCompletion("2024-03-10", 0, true))
	s.Require().NoError(collection.SetDayType("2024-03-11", calendar.DaySickness))

	s.Require().NoError(s.storage.Save(s.ctx, userID, collection))

	stored, err := s.storage.Get(s.ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(stored.Events["2024-03-10"], 3)
	s.Equal([]bool{true, false, false}, stored.DoneMap["2024-03-10"])
	s.Equal(collection.Events["2024-03-10"][2].ID, stored.Events["2024-03-10"][2].ID)
	s.True(stored.Events["2024-03-10"][2].InCategory("codeforces"))
	s.Nil(stored.Events["2024-03-10"][0].Category)
	s.Equal(calendar.DaySickness, stored.DayTypeOf("2024-03-11"))
	s.Equal(collection.Categories, stored.Categories)
	s.NoError(stored.Validate())

	s.Equal(calendar.Coverage{Completed: 1, Left: 2},
		stored.Coverage(reference, reference, ""))
}

func (s *PostgresTestSuite) TestSaveOverwrites() {
	userID := uuid.New()
	first := calendar.NewCollection(reference)
	_, err := first.AddTask("2024-03-10", "first")
	s.Require().NoError(err)
	s.Require().NoError(s.storage.Save(s.ctx, userID, first))

	second := calendar.NewCollection(reference)
	_, err = second.AddTask("2024-03-12", "second")
	s.Require().NoError(err)
	s.Require().NoError(s.storage.Save(s.ctx, userID, second))

	stored, err := s.storage.Get(s.ctx, userID)
	s.Require().NoError(err)
	s.NotContains(stored.Events, "2024-03-10")
	s.Contains(stored.Events, "2024-03-12")

	ids, err := s.storage.ListUserIDs(s.ctx)
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{userID}, ids)
}

func (s *PostgresTestSuite) TestListUserIDs() {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, id := range ids {
		s.Require().NoError(s.storage.Save(s.ctx, id, calendar.NewCollection(reference)))
	}

	listed, err := s.storage.ListUserIDs(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch(ids, listed)
}

func (s *PostgresTestSuite) TestUsers() {
	u := &user.User{
		ID:           uuid.New(),
		Name:         "Ann",
		Email:        "Ann@Example.com",
		PasswordHash: "hash",
	}
	s.Require().NoError(s.storage.Create(s.ctx, u))
	s.False(u.CreatedAt.IsZero())

	dup := &user.User{ID: uuid.New(), Name: "Other", Email: "ann@example.com", PasswordHash: "x"}
	s.ErrorIs(s.storage.Create(s.ctx, dup), repository.ErrAlreadyExists)

	found, err := s.storage.GetByEmail(s.ctx, "ANN@example.com")
	s.Require().NoError(err)
	s.Equal(u.ID, found.ID)
	s.Equal("hash", found.PasswordHash)

	byID, err := s.storage.GetByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("ann@example.com", byID.Email)

	_, err = s.storage.GetByID(s.ctx, uuid.New())
	s.ErrorIs(err, repository.ErrNotFound)
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропуск интеграционных тестов в режиме -short")
	}
	suite.Run(t, new(PostgresTestSuite))
}
