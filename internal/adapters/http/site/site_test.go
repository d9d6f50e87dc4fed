package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteRoutes(t *testing.T) {
	Convey("Given the docs site registered on a mux", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux)

		serve := func(method, path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(method, path, nil))
			return w
		}

		Convey("The landing page links the API reference", func() {
			w := serve(http.MethodGet, "/")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, "/api-docs")
		})

		Convey("The column reference documents derived metrics", func() {
			w := serve(http.MethodGet, "/docs/columns.html")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "Consistency_Score")
		})

		Convey("Unknown root paths are not found", func() {
			So(serve(http.MethodGet, "/players.csv").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Writes to the landing page are rejected", func() {
			So(serve(http.MethodPost, "/").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})

	Convey("ErrServe carries a stable message", t, func() {
		So(ErrServe.Error(), ShouldEqual, "docs site serve failed")
	})
}
