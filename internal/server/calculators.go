package server

import (
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/tariffdesk/internal/assistant/knowledge"
	pricingservice "github.com/smallbiznis/tariffdesk/internal/pricing/service"
	proratadomain "github.com/smallbiznis/tariffdesk/internal/prorata/domain"
	prorataservice "github.com/smallbiznis/tariffdesk/internal/prorata/service"
	taxdomain "github.com/smallbiznis/tariffdesk/internal/tax/domain"
	taxservice "github.com/smallbiznis/tariffdesk/internal/tax/service"
)

type pricingRequest struct {
	BasePrice *float64 `json:"basePrice" validate:"required"`
}

func (s *Server) ComputePricing(c *gin.Context) {
	var req pricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": pricingservice.ComputePricing(*req.BasePrice)})
}

func (s *Server) ListPricingFormulas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": pricingservice.Formulas()})
}

type prorataRequest struct {
	ActivationDate   string   `json:"activationDate" validate:"required"`
	MonthlyNet       *float64 `json:"monthlyNet,omitempty" validate:"omitempty,gte=0"`
	FullInvoiceGross *float64 `json:"fullInvoiceGross,omitempty" validate:"omitempty,gte=0"`
	Locale           string   `json:"locale,omitempty" validate:"omitempty,oneof=en ar"`
	View             string   `json:"view,omitempty" validate:"omitempty,oneof=script totals vat"`
}

type prorataResponse struct {
	Result proratadomain.Result `json:"result"`
	Output string               `json:"output"`
}

// ComputeProrata prorates either a net monthly value or a VAT-inclusive
// invoice. A gross amount takes precedence when both are sent.
func (s *Server) ComputeProrata(c *gin.Context) {
	var req prorataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		AbortWithError(c, err)
		return
	}

	activation, err := prorataservice.ParseDate(req.ActivationDate)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var request proratadomain.Request
	switch {
	case req.FullInvoiceGross != nil:
		if !finite(*req.FullInvoiceGross) {
			AbortWithError(c, proratadomain.ErrInvalidAmount)
			return
		}
		request = proratadomain.GrossRequest{ActivationDate: activation, FullInvoiceGross: *req.FullInvoiceGross}
	case req.MonthlyNet == nil:
		AbortWithError(c, newValidationError("monthlyNet", "required", "monthlyNet or fullInvoiceGross is required"))
		return
	default:
		if !finite(*req.MonthlyNet) {
			AbortWithError(c, proratadomain.ErrInvalidAmount)
			return
		}
		request = proratadomain.MonthlyRequest{ActivationDate: activation, MonthlyNet: *req.MonthlyNet}
	}

	result := prorataservice.Compute(request)
	output, err := prorataservice.FormatOutput(result, localeOrDefault(req.Locale), proratadomain.OutputView(req.View))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": prorataResponse{Result: result, Output: output}})
}

type vatRequest struct {
	Amount   float64  `json:"amount"`
	Quantity *float64 `json:"quantity,omitempty"`
	Locale   string   `json:"locale,omitempty" validate:"omitempty,oneof=en ar"`
}

type vatResponse struct {
	Breakdown taxdomain.VATBreakdown `json:"breakdown"`
	Text      string                 `json:"text"`
}

func (s *Server) ComputeVAT(c *gin.Context) {
	var req vatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		AbortWithError(c, err)
		return
	}
	if !taxservice.ValidAmount(req.Amount) {
		AbortWithError(c, taxdomain.ErrInvalidAmount)
		return
	}

	quantity := 1.0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	breakdown := taxservice.ComputeVAT(req.Amount, quantity, taxdomain.DefaultVATRate)
	reply := taxservice.FormatVATReply(breakdown)

	text := reply.EN
	if localeOrDefault(req.Locale) == "ar" {
		text = reply.AR
	}
	c.JSON(http.StatusOK, gin.H{"data": vatResponse{Breakdown: breakdown, Text: text}})
}

type smartLinkView struct {
	ID          string             `json:"id"`
	Label       string             `json:"label"`
	Description string             `json:"description"`
	Href        string             `json:"href"`
	Category    knowledge.Category `json:"category"`
}

// ListSmartLinks returns the links matching q, or the whole catalog when q
// is empty.
func (s *Server) ListSmartLinks(c *gin.Context) {
	locale := localeOrDefault(c.Query("locale"))

	links := knowledge.SmartLinks()
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		links = knowledge.MatchSmartLinks(q)
	}

	out := make([]smartLinkView, 0, len(links))
	for _, link := range links {
		out = append(out, smartLinkView{
			ID:          link.ID,
			Label:       link.Label.In(locale),
			Description: link.Description.In(locale),
			Href:        link.Href,
			Category:    link.Category,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func localeOrDefault(locale string) string {
	if locale == "ar" {
		return "ar"
	}
	return "en"
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
