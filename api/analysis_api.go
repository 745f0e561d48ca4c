package api

import (
	"html/template"
	"net/http"

	"clickupai/analysis"
	"clickupai/domain"
	"clickupai/frontend"

	"github.com/gin-gonic/gin"
	"github.com/invopop/jsonschema"
	"github.com/rs/zerolog/log"
)

// pageData feeds the HTML templates. Form never carries the API key back to
// the page.
type pageData struct {
	Form               domain.AnalysisRequest
	UseCases           []domain.UseCase
	Templates          []domain.Template
	Error              string
	ErrorKind          domain.ErrorKind
	Result             *domain.AnalysisResult
	RecommendationHTML template.HTML
}

func (ctrl *Controller) newPageData(form domain.AnalysisRequest) pageData {
	form.APIKey = ""
	if form.UseCase == "" {
		form.UseCase = string(domain.AllUseCases[0])
	}
	return pageData{Form: form, UseCases: domain.AllUseCases, Templates: ctrl.templates}
}

func (ctrl *Controller) IndexHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", ctrl.newPageData(domain.AnalysisRequest{}))
}

// AnalyzeFormHandler runs an analysis synchronously for the form submit and
// renders either the result or the error on the form page.
func (ctrl *Controller) AnalyzeFormHandler(c *gin.Context) {
	var req domain.AnalysisRequest
	if err := c.ShouldBind(&req); err != nil {
		data := ctrl.newPageData(req)
		data.Error = "The form could not be read. Please try again."
		data.ErrorKind = domain.ErrorKindInvalidInput
		c.HTML(http.StatusBadRequest, "index.html", data)
		return
	}

	data := ctrl.newPageData(req)
	result, err := ctrl.analyzer.Run(c.Request.Context(), req, nil)
	if err != nil {
		data.Error = analysis.UserMessage(err)
		data.ErrorKind = domain.KindOf(err)
		c.HTML(statusForKind(data.ErrorKind), "index.html", data)
		return
	}

	html, err := frontend.RenderMarkdown(result.RecommendationText)
	if err != nil {
		log.Warn().Err(err).Str("analysisId", result.Id).Msg("Failed to render recommendations as markdown")
		html = template.HTML(template.HTMLEscapeString(result.RecommendationText))
	}
	data.Result = &result
	data.RecommendationHTML = html
	data.Templates = result.SuggestedTemplates
	c.HTML(http.StatusOK, "result.html", data)
}

func (ctrl *Controller) CreateAnalysisHandler(c *gin.Context) {
	var req domain.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "kind": domain.ErrorKindInvalidInput})
		return
	}

	result, err := ctrl.analyzer.Run(c.Request.Context(), req, nil)
	if err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ctrl *Controller) GetUseCasesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"useCases": domain.AllUseCases})
}

func (ctrl *Controller) GetTemplatesHandler(c *gin.Context) {
	templates := ctrl.templates
	if useCase := c.Query("useCase"); useCase != "" {
		uc, err := domain.ParseUseCase(useCase)
		if err != nil {
			ctrl.ErrorHandler(c, err)
			return
		}
		templates = domain.SuggestTemplates(templates, uc)
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func (ctrl *Controller) GetAnalysisSchemaHandler(c *gin.Context) {
	reflector := jsonschema.Reflector{ExpandedStruct: true}
	c.JSON(http.StatusOK, reflector.Reflect(&domain.AnalysisResult{}))
}
