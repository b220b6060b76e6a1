package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ratehub/internal/authz"
	"ratehub/internal/dto"
	"ratehub/internal/repository"
	"ratehub/internal/service"
)

type MockTitleService struct {
	mock.Mock
}

func (m *MockTitleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Paginated[dto.TitleResponse], error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.TitleResponse]), args.Error(1)
}

func (m *MockTitleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Create(ctx context.Context, actor authz.Actor, req dto.CreateTitleRequest) (*dto.TitleResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Update(ctx context.Context, actor authz.Actor, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func newTitleRouter(svc service.TitleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	v1 := router.Group("/api/v1")
	NewTitleHandler(svc).RegisterRoutes(v1)
	return router
}

func TestTitleGetEndpoint_RatingRendersNull(t *testing.T) {
	svc := new(MockTitleService)
	svc.On("Get", mock.Anything, int64(1)).
		Return(&dto.TitleResponse{ID: 1, Name: "Solaris", Year: 1972, Genre: []dto.SlugResponse{}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/titles/1", nil)
	recorder := httptest.NewRecorder()
	newTitleRouter(svc).ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	var body map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "null", string(body["rating"]))
}

func TestTitleListEndpoint_QueryFilters(t *testing.T) {
	svc := new(MockTitleService)
	expected := repository.TitleFilter{CategorySlug: "film", GenreSlug: "sci-fi", Name: "sol", Year: 1972}
	svc.On("List", mock.Anything, expected, 2, 10).
		Return(dto.NewPaginated([]dto.TitleResponse{}, 0, 2, 10), nil)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/titles?category=film&genre=sci-fi&name=sol&year=1972&page=2&page_size=10", nil)
	recorder := httptest.NewRecorder()
	newTitleRouter(svc).ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	svc.AssertExpectations(t)
}

func TestTitleEndpoint_PutNotAllowed(t *testing.T) {
	svc := new(MockTitleService)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/titles/1", nil)
	recorder := httptest.NewRecorder()
	newTitleRouter(svc).ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

func TestTitleGetEndpoint_BadID(t *testing.T) {
	svc := new(MockTitleService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/titles/not-a-number", nil)
	recorder := httptest.NewRecorder()
	newTitleRouter(svc).ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}
