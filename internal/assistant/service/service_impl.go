package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	assistantdomain "github.com/smallbiznis/tariffdesk/internal/assistant/domain"
	"github.com/smallbiznis/tariffdesk/internal/assistant/intent"
	"github.com/smallbiznis/tariffdesk/internal/assistant/knowledge"
	"github.com/smallbiznis/tariffdesk/internal/config"
	docsdomain "github.com/smallbiznis/tariffdesk/internal/docs/domain"
	"github.com/smallbiznis/tariffdesk/internal/observability/metrics"
	prorataservice "github.com/smallbiznis/tariffdesk/internal/prorata/service"
	taxdomain "github.com/smallbiznis/tariffdesk/internal/tax/domain"
	taxservice "github.com/smallbiznis/tariffdesk/internal/tax/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// minListLines is how many non-blank lines a message needs to be answered
// with the capture note alone.
const minListLines = 3

type Params struct {
	fx.In

	Docs      docsdomain.Service
	Assistant *config.AssistantConfigHolder
	GenID     *snowflake.Node
	Metrics   *metrics.Metrics `optional:"true"`
	Log       *zap.Logger
}

type Service struct {
	docs      docsdomain.Service
	assistant *config.AssistantConfigHolder
	genID     *snowflake.Node
	metrics   *metrics.Metrics
	log       *zap.Logger
	now       func() time.Time

	navMu     sync.Mutex
	navKey    string
	navigator *intent.Navigator
}

func New(p Params) assistantdomain.Service {
	return newService(p)
}

func newService(p Params) *Service {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	holder := p.Assistant
	if holder == nil {
		holder = config.NewStaticAssistantConfigHolder(config.DefaultAssistantConfig())
	}
	return &Service{
		docs:      p.Docs,
		assistant: holder,
		genID:     p.GenID,
		metrics:   p.Metrics,
		log:       log.Named("assistant.service"),
		now:       time.Now,
	}
}

func (s *Service) Dispatch(ctx context.Context, req assistantdomain.ChatRequest) (assistantdomain.Reply, error) {
	latest, hasLatest := latestUserMessage(req.Messages)
	locale := intent.DetectLocale(req.Locale, latest)

	docs, err := s.docs.ReadAll(ctx)
	if err != nil {
		return assistantdomain.Reply{}, err
	}

	capture := docsdomain.UpsertResult{}
	if hasLatest {
		capture, err = s.docs.ExtractAndStore(ctx, latest)
		if err != nil {
			return assistantdomain.Reply{}, err
		}
		if capture.Changed() {
			s.metrics.RecordDocsCaptured(ctx, len(capture.Added), len(capture.Updated))
			if docs, err = s.docs.ReadAll(ctx); err != nil {
				return assistantdomain.Reply{}, err
			}
		}
	}
	note := BuildDocsNote(capture, locale)
	cfg := s.assistant.Get()

	if hasLatest {
		if reply, ok := s.prorataReply(latest, locale, note); ok {
			return reply, nil
		}
		if reply, ok := s.vatReply(latest, locale, note); ok {
			return reply, nil
		}
		if match, ok := s.navigatorFor(cfg.NavTriggers).Detect(latest, docs); ok {
			s.log.Debug("doc navigation matched",
				zap.String("doc_id", match.Doc.ID),
				zap.Float64("score", match.Score),
			)
			return s.navigateReply(match.Doc, locale, note), nil
		}
		if note != "" && countLines(latest) >= minListLines && !strings.ContainsAny(latest, "?؟") {
			return s.reply(assistantdomain.IntentDocsUpdate, locale, note,
				assistantdomain.NewDocsUpdatePayload(locale, capture)), nil
		}
	}

	return assistantdomain.Reply{
		Intent: assistantdomain.IntentCompletion,
		Locale: locale,
		Stream: s.streamPlan(cfg, req.Messages, latest, docs, note),
	}, nil
}

func (s *Service) prorataReply(message, locale, note string) (assistantdomain.Reply, bool) {
	req, ok := intent.ParseProrataIntent(message)
	if !ok {
		return assistantdomain.Reply{}, false
	}
	result := prorataservice.Compute(req)

	data := assistantdomain.ProrataData{
		Period:           prorataservice.YMD(result.CycleStartUTC) + " → " + prorataservice.YMD(result.CycleEndUTC),
		ProDays:          fmt.Sprintf("%d / %d", result.ProDays, result.CycleDays),
		Percent:          result.PctText,
		MonthlyNet:       result.MonthlyNetText,
		ProrataNet:       result.ProrataNetText,
		InvoiceDate:      prorataservice.YMD(result.CycleEndUTC),
		CoverageUntil:    prorataservice.YMD(result.NextCycleEndUTC),
		Script:           prorataservice.BuildScript(result, locale),
		FullInvoiceGross: result.FullInvoiceGross,
	}
	content := combineText(locale, note, "تم حساب البروراتا.", "Pro-rata calculation ready.")
	return s.reply(assistantdomain.IntentProrata, locale, content,
		assistantdomain.NewProrataPayload(locale, data)), true
}

func (s *Service) vatReply(message, locale, note string) (assistantdomain.Reply, bool) {
	vat, ok := intent.ParseVATIntent(message)
	if !ok {
		return assistantdomain.Reply{}, false
	}
	text := taxservice.FormatVATReply(taxservice.ComputeVAT(vat.Amount, vat.Quantity, taxdomain.DefaultVATRate))
	return s.reply(assistantdomain.IntentVAT, locale, combineText(locale, note, text.AR, text.EN), nil), true
}

func (s *Service) navigateReply(doc docsdomain.DocEntry, locale, note string) assistantdomain.Reply {
	ar := fmt.Sprintf(`أضف رابطًا لـ "%s" ثم أعد المحاولة.`, doc.Title)
	en := fmt.Sprintf(`Add a link for "%s" and try again.`, doc.Title)
	if doc.URL != "" {
		ar = fmt.Sprintf(`تم فتح "%s".`, doc.Title)
		en = fmt.Sprintf(`Opening "%s".`, doc.Title)
	}
	return s.reply(assistantdomain.IntentNavigate, locale, combineText(locale, note, ar, en),
		assistantdomain.NewNavigatePayload(locale, doc, note))
}

func (s *Service) reply(kind assistantdomain.Intent, locale, content string, payload *assistantdomain.Payload) assistantdomain.Reply {
	return assistantdomain.Reply{
		Intent:  kind,
		Locale:  locale,
		Message: s.assistantMessage(content, payload),
	}
}

func (s *Service) assistantMessage(content string, payload *assistantdomain.Payload) *assistantdomain.ChatMessage {
	now := s.now()
	id := strconv.FormatInt(now.UnixMilli(), 10)
	if s.genID != nil {
		id = s.genID.Generate().String()
	}
	return &assistantdomain.ChatMessage{
		ID:        id,
		Role:      assistantdomain.RoleAssistant,
		Content:   content,
		Timestamp: now.UnixMilli(),
		Payload:   payload,
	}
}

func (s *Service) streamPlan(cfg config.AssistantConfig, history []assistantdomain.ChatMessage, latest string, docs []docsdomain.DocEntry, note string) *assistantdomain.StreamPlan {
	messages := []assistantdomain.PromptMessage{
		{Role: assistantdomain.RoleSystem, Content: cfg.SystemPrompt},
		{Role: assistantdomain.RoleSystem, Content: docsListLine(docs)},
	}
	if snippets := knowledge.BuildPrompt(knowledge.Retrieve(latest, cfg.KnowledgeLimit)); snippets != "" {
		messages = append(messages, assistantdomain.PromptMessage{Role: assistantdomain.RoleSystem, Content: snippets})
	}
	if hints := knowledge.BuildLinkHints(knowledge.MatchSmartLinks(latest)); hints != "" {
		messages = append(messages, assistantdomain.PromptMessage{Role: assistantdomain.RoleSystem, Content: hints})
	}
	for _, msg := range history {
		messages = append(messages, assistantdomain.PromptMessage{Role: msg.Role, Content: msg.Content})
	}

	plan := &assistantdomain.StreamPlan{Messages: messages}
	if note != "" {
		plan.Prefix = note + "\n"
	}
	return plan
}

// navigatorFor rebuilds the trigger matcher only when the configured extra
// triggers change.
func (s *Service) navigatorFor(extra []string) *intent.Navigator {
	key := strings.Join(extra, "\x00")

	s.navMu.Lock()
	defer s.navMu.Unlock()
	if s.navigator == nil || key != s.navKey {
		s.navigator = intent.NewNavigator(extra...)
		s.navKey = key
	}
	return s.navigator
}

func latestUserMessage(messages []assistantdomain.ChatMessage) (string, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		if msg.Role == assistantdomain.RoleUser && strings.TrimSpace(msg.Content) != "" {
			return msg.Content, true
		}
	}
	return "", false
}
