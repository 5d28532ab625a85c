package handlers

import (
	"errors"
	"io"
	"math"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"bazar-backend/internal/apperr"
	"bazar-backend/internal/models"
	"bazar-backend/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const (
	imageField     = "imgProduct"
	maxUploadBytes = 10 << 20
)

// ProductHandler accepts product writes either as JSON or as a multipart form
// carrying the same fields plus an optional image part.
type ProductHandler struct {
	productService *services.ProductService
	logger         zerolog.Logger
}

func NewProductHandler(productService *services.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var (
		req models.CreateProductRequest
		img *models.ImageUpload
		err error
	)
	if isMultipart(r) {
		img, err = parseProductForm(w, r, &req)
		if err == nil {
			err = validateStruct(&req)
		}
	} else {
		err = decodeJSON(w, r, &req)
	}
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	product, err := h.productService.Create(r.Context(), &req, img)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var (
		req models.UpdateProductRequest
		img *models.ImageUpload
		err error
	)
	if isMultipart(r) {
		img, err = parseProductUpdateForm(w, r, &req)
		if err == nil {
			err = validateStruct(&req)
		}
	} else {
		err = decodeJSON(w, r, &req)
	}
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	product, err := h.productService.Update(r.Context(), mux.Vars(r)["id"], &req, img)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.productService.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// productForm reads the multipart body once and gives access to its text
// fields and the optional image part.
type productForm struct {
	form *multipart.Form
}

func readProductForm(w http.ResponseWriter, r *http.Request) (*productForm, *models.ImageUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, apperr.Wrap(apperr.Validation("Upload exceeds 10MB"), err)
		}
		return nil, nil, apperr.Wrap(apperr.Validation("Invalid multipart form"), err)
	}

	pf := &productForm{form: r.MultipartForm}
	img, err := pf.image()
	if err != nil {
		return nil, nil, err
	}
	return pf, img, nil
}

func (pf *productForm) value(key string) (string, bool) {
	vs, ok := pf.form.Value[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func (pf *productForm) str(key string) *string {
	v, ok := pf.value(key)
	if !ok {
		return nil
	}
	return &v
}

func (pf *productForm) float(key string) (*float64, error) {
	v, ok := pf.value(key)
	if !ok || v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, apperr.Wrap(apperr.Validation(key+" must be a number"), err)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, apperr.Validation(key + " must be a finite number")
	}
	return &f, nil
}

func (pf *productForm) image() (*models.ImageUpload, error) {
	files := pf.form.File[imageField]
	if len(files) == 0 {
		return nil, nil
	}
	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		return nil, apperr.Wrap(apperr.Validation("Invalid image upload"), err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperr.Wrap(apperr.Validation("Invalid image upload"), err)
	}
	return &models.ImageUpload{Filename: fh.Filename, Data: data}, nil
}

func parseProductForm(w http.ResponseWriter, r *http.Request, req *models.CreateProductRequest) (*models.ImageUpload, error) {
	pf, img, err := readProductForm(w, r)
	if err != nil {
		return nil, err
	}

	req.Name, _ = pf.value("name")
	req.Description, _ = pf.value("description")
	req.Status, _ = pf.value("status")
	req.Category, _ = pf.value("category")
	req.State, _ = pf.value("state")
	if req.Price, err = pf.float("price"); err != nil {
		return nil, err
	}
	if req.Discount, err = pf.float("discount"); err != nil {
		return nil, err
	}
	return img, nil
}

func parseProductUpdateForm(w http.ResponseWriter, r *http.Request, req *models.UpdateProductRequest) (*models.ImageUpload, error) {
	pf, img, err := readProductForm(w, r)
	if err != nil {
		return nil, err
	}

	req.Name = pf.str("name")
	req.Description = pf.str("description")
	req.Status = pf.str("status")
	req.Category = pf.str("category")
	req.State = pf.str("state")
	if req.Price, err = pf.float("price"); err != nil {
		return nil, err
	}
	if req.Discount, err = pf.float("discount"); err != nil {
		return nil, err
	}
	return img, nil
}
