package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"bikehouse/internal/models"
)

// imageFields are the multipart file fields an upload may use. The product
// form posts "image", the review form posts "img".
var imageFields = []string{"image", "img"}

const maxMultipartMemory = 32 << 20

/*
=======================
  PARSERS
=======================
*/

func parseMultipartProductRequest(c *gin.Context) (models.Product, error) {
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		return models.Product{}, fmt.Errorf("parse multipart: %w", err)
	}

	product := models.Product{
		Name: strings.TrimSpace(c.PostForm("name")),
		Description: models.ProductDescription{
			Feature1: strings.TrimSpace(c.PostForm("feature1")),
			Feature2: strings.TrimSpace(c.PostForm("feature2")),
			Feature3: strings.TrimSpace(c.PostForm("feature3")),
		},
	}

	if value, ok := c.GetPostForm("price"); ok && strings.TrimSpace(value) != "" {
		price, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return models.Product{}, fmt.Errorf("price must be an integer: %w", err)
		}
		product.Price = price
	}

	image, err := formImage(c)
	if err != nil {
		return models.Product{}, err
	}
	product.Image = image

	return product, nil
}

func parseMultipartReviewRequest(c *gin.Context) (models.Review, error) {
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		return models.Review{}, fmt.Errorf("parse multipart: %w", err)
	}

	review := models.Review{
		Name:    strings.TrimSpace(c.PostForm("name")),
		Email:   strings.TrimSpace(c.PostForm("email")),
		Comment: strings.TrimSpace(c.PostForm("comment")),
	}

	if value, ok := c.GetPostForm("rating"); ok && strings.TrimSpace(value) != "" {
		rating, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return models.Review{}, fmt.Errorf("rating must be a number: %w", err)
		}
		review.Rating = rating
	}

	image, err := formImage(c)
	if err != nil {
		return models.Review{}, err
	}
	review.Image = image

	return review, nil
}

/*
=======================
  IMAGE
=======================
*/

// formImage returns the bytes of the first image field present, or nil when
// the form carries no file.
func formImage(c *gin.Context) ([]byte, error) {
	for _, field := range imageFields {
		file, err := c.FormFile(field)
		if err == nil {
			return readImage(file)
		}
		// tolerate the missing-file error wording of older gin versions
		if !errors.Is(err, http.ErrMissingFile) && !strings.Contains(err.Error(), "no such file") {
			return nil, err
		}
	}
	return nil, nil
}

// readImage loads the upload unchanged; the bytes are stored as-is.
func readImage(file *multipart.FileHeader) ([]byte, error) {
	in, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", file.Filename, err)
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", file.Filename, err)
	}
	return data, nil
}
