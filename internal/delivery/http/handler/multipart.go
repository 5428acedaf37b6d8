package handler

import (
	"errors"
	"io"
	"net/http"
)

const maxUploadSize = 10 << 20

var errNoFile = errors.New("no file in request")

// readMultipartFile pulls one uploaded file out of a multipart form and
// returns its bytes plus the declared content type.
func readMultipartFile(r *http.Request, field string) ([]byte, string, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, "", err
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", errNoFile
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return nil, "", err
	}

	return data, header.Header.Get("Content-Type"), nil
}
