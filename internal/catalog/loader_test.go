package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emnesok/emnesok-api/internal/httpx"
	"github.com/emnesok/emnesok-api/internal/types"
)

func fastClient() *httpx.Client {
	return httpx.NewWith(&http.Client{}, 1, 0)
}

func catalogJSON(tag string, courses ...types.CatalogCourse) []byte {
	data, _ := json.Marshal(types.InstitutionCatalog{Institution: tag, Courses: courses})
	return data
}

func course(code, name string, students int) types.CatalogCourse {
	return types.CatalogCourse{
		CourseInfo: types.CourseInfo{Code: code, Name: name},
		Students:   students,
	}
}

func TestLoadFetchesAndNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/uio.json", r.URL.Path)
		// wire-suffixed and whitespace-damaged codes in the resource file
		w.Write(catalogJSON("uio",
			course("IN2010-1", "Algoritmer og datastrukturer", 412),
			course("in 1000", "Intro", 900),
		))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, fastClient())
	cat, err := svc.Load(context.Background(), "uio")
	require.NoError(t, err)
	require.Len(t, cat.Courses, 2)
	assert.Equal(t, "IN2010", cat.Courses[0].Code)
	assert.Equal(t, "uio", cat.Courses[0].Institution)
	assert.Equal(t, "IN1000", cat.Courses[1].Code)
	assert.Equal(t, 900, cat.Courses[1].Students)
}

func TestLoadMemoizes(t *testing.T) {
	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		w.Write(catalogJSON("uio", course("IN2010", "Algoritmer", 412)))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, fastClient())
	first, err := svc.Load(context.Background(), "uio")
	require.NoError(t, err)
	second, err := svc.Load(context.Background(), "uio")
	require.NoError(t, err)

	assert.Equal(t, int32(1), fetches.Load())
	assert.Same(t, first, second)
}

func TestConcurrentLoadsCoalesce(t *testing.T) {
	var fetches atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		<-release
		w.Write(catalogJSON("uio", course("IN2010", "Algoritmer", 412)))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, fastClient())

	const callers = 8
	results := make([]*types.InstitutionCatalog, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cat, err := svc.Load(context.Background(), "uio")
			assert.NoError(t, err)
			results[i] = cat
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), fetches.Load(), "concurrent callers must share one fetch")
	for i := 1; i < callers; i++ {
		assert.Same(t, results[0], results[i], "all callers observe the identical catalog")
	}
}

func TestLoadUnknownInstitution(t *testing.T) {
	svc := NewService("http://unused.invalid", fastClient())
	_, err := svc.Load(context.Background(), "hogwarts")
	require.ErrorIs(t, err, types.ErrUnknownInstitution)
}

func TestLoadFailureDegradesToEmptyCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	svc := NewService(srv.URL, fastClient())
	cat, err := svc.Load(context.Background(), "uio")
	require.NoError(t, err, "transport failures stay inside the loader")
	assert.Equal(t, "uio", cat.Institution)
	assert.Empty(t, cat.Courses)
}

func TestLoadFailureIsNotMemoized(t *testing.T) {
	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fetches.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(catalogJSON("uio", course("IN2010", "Algoritmer", 412)))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, fastClient())
	cat, err := svc.Load(context.Background(), "uio")
	require.NoError(t, err)
	assert.Empty(t, cat.Courses)

	cat, err = svc.Load(context.Background(), "uio")
	require.NoError(t, err)
	assert.Len(t, cat.Courses, 1)
}

func TestPreloadWarmsCache(t *testing.T) {
	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		w.Write(catalogJSON("ntnu", course("TMA4100", "Matematikk 1", 1500)))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, fastClient())
	svc.Preload("ntnu")
	svc.Preload("ntnu") // redundant, must not double-fetch once loaded

	require.Eventually(t, func() bool { return svc.Loaded("ntnu") }, time.Second, 5*time.Millisecond)
	svc.Preload("ntnu")
	assert.Equal(t, int32(1), fetches.Load())
}

func TestResetForcesRefetch(t *testing.T) {
	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		w.Write(catalogJSON("uio", course("IN2010", "Algoritmer", 412)))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, fastClient())
	_, err := svc.Load(context.Background(), "uio")
	require.NoError(t, err)
	svc.Reset()
	_, err = svc.Load(context.Background(), "uio")
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetches.Load())
}
