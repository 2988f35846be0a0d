// api/router.go
package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the routes. CORS is restricted to the /api group,
// health stays open.
func NewRouter(d *Deps, allowedOrigins []string) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", HealthzHandler())

	apiGroup := r.Group("/api")
	if len(allowedOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = allowedOrigins
		apiGroup.Use(cors.New(corsCfg))
	}
	{
		apiGroup.POST("/generate", GenerateHandler(d))
		apiGroup.GET("/entities", EntitiesHandler(d.Store))
		apiGroup.GET("/entities/:name", EntityByNameHandler(d.Store))
		apiGroup.GET("/meta", MetaHandler(d.Store))
		apiGroup.GET("/mapping/lint", MappingLintHandler(d))
	}

	return r
}

func RunServer(addr string, d *Deps, allowedOrigins []string) error {
	return NewRouter(d, allowedOrigins).Run(addr)
}
