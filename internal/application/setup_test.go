package application

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/factory-erp/internal/domain/entity"
	"github.com/oksasatya/factory-erp/internal/infrastructure/persistence"
	"github.com/oksasatya/factory-erp/internal/testutil"
	"github.com/oksasatya/factory-erp/pkg/helpers"
	"github.com/oksasatya/factory-erp/pkg/mailer"
	tpl "github.com/oksasatya/factory-erp/pkg/mailer/templates"
)

type recordingPublisher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	var job mailer.EmailJob
	if err := json.Unmarshal(b, &job); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, job)
	return nil
}

func (p *recordingPublisher) templates() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.jobs))
	for _, j := range p.jobs {
		out = append(out, j.Template)
	}
	return out
}

// fakeClock is shared by the JWT manager of a fixture.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	db     *persistence.DB
	clock  *fakeClock
	jwt    *helpers.JWTManager
	tokens *TokenService
	auth   *AuthService
	users  *UserService
	trucks *TruckService
	jobs   *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewSQLite(t)
	clock := &fakeClock{t: time.Now()}
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	jwt.Now = clock.Now

	logger := helpers.NewDiscardLogger()
	userRepo := persistence.NewUserRepository(db.DB)
	tokens := NewTokenService(jwt, persistence.NewRefreshTokenRepository(db.DB))
	jobs := &recordingPublisher{}
	branding := tpl.Branding{AppName: "Factory ERP", CompanyName: "Acme Steel"}

	return &fixture{
		db:     db,
		clock:  clock,
		jwt:    jwt,
		tokens: tokens,
		auth:   NewAuthService(userRepo, tokens, jobs, branding, logger),
		users:  &UserService{Users: userRepo, Tokens: tokens, Jobs: jobs, Branding: branding, Logger: logger},
		trucks: &TruckService{Trucks: persistence.NewTruckRepository(db.DB), Logger: logger},
		jobs:   jobs,
	}
}

func (f *fixture) createUser(t *testing.T, email, password string, role entity.Role) *entity.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), CreateUserInput{Email: email, Password: password, Name: "User " + string(role), Role: role})
	require.NoError(t, err)
	return u
}
