package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the HTTP routes. Both import call sites (the admin single
// import and the bulk import) invoke the same pipeline.
func NewRouter(h *Handler, allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/receitas", h.GetRecipes)
	r.GET("/receitaDet/:id", h.GetRecipe)
	r.GET("/resultados", h.Search)
	r.GET("/categorias", h.GetCategories)
	r.GET("/categoria/:nome", h.GetByCategory)

	r.GET("/importar", h.ImportBatch)
	r.GET("/api/importar-receita", h.ImportOne)

	return r
}
