package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/services/blob"
)

// maxUploadSize caps upload payloads at 25MB.
const maxUploadSize = 25 << 20

type uploadApi struct {
	storage blobsvc.Storage
}

func registerUploadAPI(g *echo.Group, storage blobsvc.Storage) {
	api := uploadApi{storage: storage}
	g.POST("/upload", api.upload, instructorMiddleware())
}

type UploadResponse struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// Handlers

func (api *uploadApi) upload(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}
	if fh.Size > maxUploadSize {
		return echo.NewHTTPError(http.StatusBadRequest, "file too large")
	}

	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening upload")
	}
	defer func() { _ = src.Close() }()

	url, path, err := api.storage.Save(fh.Filename, src)
	if err != nil {
		return errors.Wrap(err, "saving upload")
	}
	return ctx.JSON(http.StatusCreated, UploadResponse{URL: url, Path: path})
}
