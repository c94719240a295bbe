package controllers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MHaddad/fieldtrack_backend/models"
	"github.com/MHaddad/fieldtrack_backend/repositories"
	"github.com/MHaddad/fieldtrack_backend/utils"
)

// ProductController manages the product catalog. Mutations are
// admin-gated by middleware; listing is open to every employee so
// BDEs can pick a product when filing a sale.
type ProductController struct {
	DB       *mongo.Client
	products repositories.ProductRepository
	validate *validator.Validate
}

func NewProductController(db *mongo.Client, products repositories.ProductRepository) *ProductController {
	return &ProductController{
		DB:       db,
		products: products,
		validate: validator.New(),
	}
}

// CreateProduct adds a product to the catalog.
func (ctrl *ProductController) CreateProduct(c echo.Context) error {
	var req models.ProductRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := ctrl.validate.Struct(&req); err != nil {
		return respondBadRequest(c, "Product name is required and points must not be negative")
	}

	now := time.Now()
	product := models.Product{
		Name:      utils.SanitizeInput(req.Name),
		Points:    req.Points,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := ctrl.products.Insert(c.Request().Context(), &product)
	if err != nil {
		return respondError(c, err)
	}
	product.ID = id

	return respondCreated(c, "Product created", product)
}

// ListProducts returns the catalog.
func (ctrl *ProductController) ListProducts(c echo.Context) error {
	products, err := ctrl.products.FindAll(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Products retrieved", products)
}

// UpdateProduct changes a product's name or point value. Existing
// sales reports keep their snapshotted points.
func (ctrl *ProductController) UpdateProduct(c echo.Context) error {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid product ID format")
	}

	var req models.ProductRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := ctrl.validate.Struct(&req); err != nil {
		return respondBadRequest(c, "Product name is required and points must not be negative")
	}
	req.Name = utils.SanitizeInput(req.Name)

	existing, err := ctrl.products.FindByID(c.Request().Context(), productID)
	if err != nil {
		return respondError(c, err)
	}
	if existing == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Product not found",
		})
	}

	if err := ctrl.products.Update(c.Request().Context(), productID, req); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Product updated", nil)
}

// DeleteProduct removes a product from the catalog.
func (ctrl *ProductController) DeleteProduct(c echo.Context) error {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid product ID format")
	}

	if err := ctrl.products.Delete(c.Request().Context(), productID); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Product deleted", nil)
}
