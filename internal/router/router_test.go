package router_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"cordoba/internal/domain"
	"cordoba/internal/handler"
	"cordoba/internal/router"
	"cordoba/internal/service"
	"cordoba/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	engine    *gin.Engine
	auth      *mocks.MockAuthService
	imports   *mocks.MockImportService
	debtors   *mocks.MockDebtorService
	contracts *mocks.MockContractService
	dashboard *mocks.MockDashboardService
	users     *mocks.MockUserService
}

func newFixture() *fixture {
	log, _ := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	f := &fixture{
		auth:      new(mocks.MockAuthService),
		imports:   new(mocks.MockImportService),
		debtors:   new(mocks.MockDebtorService),
		contracts: new(mocks.MockContractService),
		dashboard: new(mocks.MockDashboardService),
		users:     new(mocks.MockUserService),
	}
	f.engine = router.Setup(f.auth, router.Handlers{
		Auth:      handler.NewAuthHandler(f.auth),
		Import:    handler.NewImportHandler(f.imports, 1024*1024),
		Debtor:    handler.NewDebtorHandler(f.debtors),
		Contract:  handler.NewContractHandler(f.contracts),
		Dashboard: handler.NewDashboardHandler(f.dashboard),
		Health:    handler.NewHealthHandler("cordoba", "test", nil),
		User:      handler.NewUserHandler(f.users),
	}, router.Options{Log: log})
	return f
}

// token registers a bearer token for a user with the given role and home tenant.
func (f *fixture) token(role domain.UserRole, home *uuid.UUID) string {
	tok := "tok-" + uuid.NewString()
	f.auth.On("ValidateToken", tok).Return(&service.Claims{
		TenantID: home, UserID: uuid.New(), Email: "u@acme.com", Role: role,
	}, nil)
	return tok
}

func (f *fixture) do(method, target, token string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, target, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	f.engine.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthIsPublic(t *testing.T) {
	f := newFixture()

	for _, path := range []string{"/health", "/healthz", "/readyz"} {
		w := f.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	f := newFixture()

	for _, path := range []string{"/base/logs", "/devedores", "/contratos", "/dashboard/principal", "/auth/me"} {
		w := f.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRouter_OperatorIsScopedToHomeTenant(t *testing.T) {
	f := newFixture()
	home := uuid.New()
	tok := f.token(domain.RoleOperator, &home)
	f.debtors.On("List", mock.Anything, domain.SingleTenant(home), "", 0, 0).
		Return(&service.DebtorPage{Debtors: []domain.Debtor{}, Page: 1, PerPage: 20}, nil)

	w := f.do(http.MethodGet, "/devedores?tenant_id="+uuid.NewString(), tok, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	f.debtors.AssertExpectations(t)
}

func TestRouter_UserWithoutTenantIsForbidden(t *testing.T) {
	f := newFixture()
	tok := f.token(domain.RoleManager, nil)

	w := f.do(http.MethodGet, "/contratos", tok, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "NO_TENANT_ACCESS")
}

func TestRouter_DirectorWritesNeedTenant(t *testing.T) {
	f := newFixture()
	tok := f.token(domain.RoleDirector, nil)

	w := f.do(http.MethodPost, "/devedores", tok, strings.NewReader(`{"nome":"Ana","cpf":"12345678900"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "TENANT_REQUIRED")

	w = f.do(http.MethodPost, "/base/upload/confirmar/"+uuid.NewString(), tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "TENANT_REQUIRED")
	f.imports.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
}

func TestRouter_DirectorReadsAcrossTenants(t *testing.T) {
	f := newFixture()
	tok := f.token(domain.RoleDirector, nil)
	f.imports.On("Logs", mock.Anything, domain.AllTenants(), 0, 0).
		Return(&service.ImportLogPage{Logs: []domain.ImportRunListItem{}, Page: 1, PerPage: 20}, nil)

	w := f.do(http.MethodGet, "/base/logs", tok, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	f.imports.AssertExpectations(t)
}

func TestRouter_ConsolidatedDashboardIsDirectorOnly(t *testing.T) {
	f := newFixture()
	home := uuid.New()
	manager := f.token(domain.RoleManager, &home)
	director := f.token(domain.RoleDirector, nil)
	f.dashboard.On("Consolidated", mock.Anything).Return(&domain.ConsolidatedDashboard{}, nil)

	w := f.do(http.MethodGet, "/dashboard/consolidado", manager, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "INSUFFICIENT_ROLE")

	w = f.do(http.MethodGet, "/dashboard/consolidado", director, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_LoginIsPublic(t *testing.T) {
	f := newFixture()
	f.auth.On("Login", mock.Anything, service.LoginInput{Email: "ana@acme.com", Password: "pw"}).
		Return(&service.TokenPair{AccessToken: "a", TokenType: "bearer"}, nil)

	w := f.do(http.MethodPost, "/auth/login", "", strings.NewReader(`{"email":"ana@acme.com","password":"pw"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token_type":"bearer"`)
}

func TestRouter_UserManagementIsForDirectorsAndManagers(t *testing.T) {
	f := newFixture()
	home := uuid.New()
	operator := f.token(domain.RoleOperator, &home)
	manager := f.token(domain.RoleManager, &home)
	f.users.On("List", mock.Anything, domain.SingleTenant(home), 0, 0).
		Return(&service.UserPage{Users: []domain.User{}, Page: 1, PerPage: 20}, nil)

	w := f.do(http.MethodGet, "/usuarios", operator, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "INSUFFICIENT_ROLE")

	w = f.do(http.MethodPost, "/usuarios", operator,
		strings.NewReader(`{"email":"x@acme.com","password":"s3cretpass","nome":"X","role":"operador"}`))
	assert.Equal(t, http.StatusForbidden, w.Code)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	w = f.do(http.MethodGet, "/usuarios", manager, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	f.users.AssertExpectations(t)
}

func TestRouter_ArchiveLinkIsTenantScoped(t *testing.T) {
	f := newFixture()
	home := uuid.New()
	runID := uuid.New()
	tok := f.token(domain.RoleOperator, &home)
	f.imports.On("ArchiveLink", mock.Anything, domain.SingleTenant(home), runID).
		Return(nil, domain.ErrImportRunNotFound)

	w := f.do(http.MethodGet, "/base/logs/"+runID.String()+"/arquivo", tok, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "IMPORT_RUN_NOT_FOUND")
	f.imports.AssertExpectations(t)
}
