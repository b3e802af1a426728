package http

import (
	"net/http"

	"github.com/techstore/storefront-backend/internal/usecase"
	"github.com/techstore/storefront-backend/pkg/e"
	"github.com/techstore/storefront-backend/pkg/logger"
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase, logger: logger}
}

// listProducts
//
//	@Summary		Список товаров каталога
//	@Description	Возвращает товары, опционально отфильтрованные по категории
//	@Tags			catalog
//	@Produce		json
//	@Param			category	query		string	false	"Категория ('all' или пусто — без фильтра)"
//	@Success		200			{array}		ProductResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/products [get]
func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = usecase.CategoryAll
	}

	products, err := h.catalogUsecase.ListProducts(r.Context(), category)
	if err != nil {
		h.logger.Warnf("list products failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewArrProductResponse(products))
}

// listCategories
//
//	@Summary	Список категорий
//	@Tags		catalog
//	@Produce	json
//	@Success	200	{object}	CategoriesResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/categories [get]
func (h *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogUsecase.Categories(r.Context())
	if err != nil {
		h.logger.Warnf("list categories failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, &CategoriesResponse{Categories: categories})
}

// registerNewProduct
//
//	@Summary		Регистрация нового товара
//	@Description	Создает товар в каталоге с опциональным изображением
//	@Tags			admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name		formData	string	true	"Название товара"
//	@Param			category	formData	string	true	"Категория"
//	@Param			price		formData	number	true	"Цена (до двух знаков после запятой)"
//	@Param			description	formData	string	false	"Описание"
//	@Param			in_stock	formData	boolean	false	"Доступность к покупке"
//	@Param			image		formData	file	false	"Изображение товара"
//	@Success		201			{object}	ProductResponse
//	@Failure		400			{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/admin/products [post]
func (h *CatalogHandler) registerNewProduct(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 20 << 20
		maxMemory           = 8 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	prMeta, err := parseProductForm(r)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	image, err := parseImage(r.MultipartForm.File["image"])
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	req := usecase.NewRegisterProductReq(prMeta.Name, prMeta.CategoryName, prMeta.Price, prMeta.Description, prMeta.InStock, image)

	info, err := h.catalogUsecase.RegisterNewProduct(r.Context(), req)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, NewProductResponse(info))
}
