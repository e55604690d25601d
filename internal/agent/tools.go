package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/capitalize-ai/travel-assistant/internal/catalog"
	"github.com/capitalize-ai/travel-assistant/internal/llm"
	"github.com/capitalize-ai/travel-assistant/internal/model"
)

const (
	toolSearchActivities = "search_activities"
	toolActivityDetails  = "get_activity_details"
	toolVariationPricing = "get_pricing_for_variation"
	toolBookActivity     = "book_activity"
	errActivityNotFound  = "Activity not found."
	errVariationNotFound = "Variation not found."
	statusSuccess        = "success"
	statusError          = "error"
)

var validate = newValidator()

// newValidator reports fields by their JSON names, which is what the model sees.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type searchArgs struct {
	Query string `json:"query" validate:"max=200"`
}

type activityArgs struct {
	ActivityID string `json:"activity_id" validate:"required"`
}

type pricingArgs struct {
	ActivityID  string `json:"activity_id" validate:"required"`
	VariationID string `json:"variation_id" validate:"required"`
}

// bookArgs mirrors model.BookingRequest; group size bounds belong to Decide.
type bookArgs struct {
	ActivityID    string `json:"activity_id" validate:"required"`
	VariationID   string `json:"variation_id" validate:"required"`
	CustomerName  string `json:"customer_name" validate:"required,max=200"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
	GroupSize     int    `json:"group_size"`
	Date          string `json:"date" validate:"max=100"`
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// toolDefinitions describes the catalog and booking tools to the model.
func toolDefinitions() []llm.Tool {
	return []llm.Tool{
		{
			Name:        toolSearchActivities,
			Description: "Search available Dubai activities by name or description.",
			Parameters: objectSchema(map[string]any{
				"query": stringProp("Free text such as 'desert' or 'cruise'."),
			}, "query"),
		},
		{
			Name:        toolActivityDetails,
			Description: "Return full details, images, and policies for a specific activity.",
			Parameters: objectSchema(map[string]any{
				"activity_id": stringProp("Activity id from search results."),
			}, "activity_id"),
		},
		{
			Name:        toolVariationPricing,
			Description: "Return pricing and capacity for a specific activity variation.",
			Parameters: objectSchema(map[string]any{
				"activity_id":  stringProp("Activity id."),
				"variation_id": stringProp("Variation id of that activity."),
			}, "activity_id", "variation_id"),
		},
		{
			Name: toolBookActivity,
			Description: "Attempt to book an activity variation. Unavailable variations or group sizes " +
				"outside the allowed range are sent to a human supervisor and return pending_supervisor.",
			Parameters: objectSchema(map[string]any{
				"activity_id":    stringProp("Activity id."),
				"variation_id":   stringProp("Variation id."),
				"customer_name":  stringProp("Full name of the customer."),
				"customer_email": stringProp("Customer email address."),
				"group_size":     map[string]any{"type": "integer", "description": "Number of people."},
				"date":           stringProp("Requested date, e.g. 2026-11-02."),
			}, "activity_id", "variation_id", "customer_name", "customer_email", "group_size", "date"),
		},
	}
}

func errorResult(message string) map[string]any {
	return map[string]any{"status": statusError, "error_message": message}
}

// runTool executes one tool call and returns its JSON result. Tool failures
// are reported to the model as error results, never as Go errors, so the
// model can recover in the same turn.
func (a *Agent) runTool(ctx context.Context, conversationID string, call llm.ToolCall) string {
	var result map[string]any

	switch call.Name {
	case toolSearchActivities:
		var args searchArgs
		if msg := decodeArgs(call.Arguments, &args); msg != "" {
			result = errorResult(msg)
			break
		}
		result = map[string]any{"status": statusSuccess, "results": a.catalog.Search(args.Query)}

	case toolActivityDetails:
		var args activityArgs
		if msg := decodeArgs(call.Arguments, &args); msg != "" {
			result = errorResult(msg)
			break
		}
		activity, err := a.catalog.FindActivity(args.ActivityID)
		if err != nil {
			result = errorResult(errActivityNotFound)
			break
		}
		result = map[string]any{"status": statusSuccess, "activity": activity}

	case toolVariationPricing:
		var args pricingArgs
		if msg := decodeArgs(call.Arguments, &args); msg != "" {
			result = errorResult(msg)
			break
		}
		_, variation, err := a.catalog.FindVariation(args.ActivityID, args.VariationID)
		if err != nil {
			result = errorResult(lookupMessage(err))
			break
		}
		result = map[string]any{
			"status":      statusSuccess,
			"activity_id": args.ActivityID,
			"variation":   variation,
		}

	case toolBookActivity:
		result = a.book(ctx, conversationID, call.Arguments)

	default:
		result = errorResult(fmt.Sprintf("Unknown tool %q.", call.Name))
	}

	out, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf(`{"status":"error","error_message":%q}`, err.Error())
	}
	return string(out)
}

func (a *Agent) book(ctx context.Context, conversationID, raw string) map[string]any {
	var args bookArgs
	if msg := decodeArgs(raw, &args); msg != "" {
		return errorResult(msg)
	}

	outcome, err := a.booker.Book(ctx, &model.BookingRequest{
		ActivityID:     args.ActivityID,
		VariationID:    args.VariationID,
		CustomerName:   args.CustomerName,
		CustomerEmail:  args.CustomerEmail,
		GroupSize:      args.GroupSize,
		Date:           args.Date,
		ConversationID: conversationID,
	})
	if err != nil {
		if msg := lookupMessage(err); msg != "" {
			return errorResult(msg)
		}
		return errorResult("Booking failed, please try again later.")
	}

	result := map[string]any{
		"status":  string(outcome.Status),
		"booking": outcome.Booking,
		"message": outcome.Message,
	}
	if outcome.EscalationID != "" {
		result["escalation_id"] = outcome.EscalationID
		result["reason"] = outcome.Reason
	}
	return result
}

func lookupMessage(err error) string {
	switch {
	case errors.Is(err, catalog.ErrActivityNotFound):
		return errActivityNotFound
	case errors.Is(err, catalog.ErrVariationNotFound):
		return errVariationNotFound
	default:
		return ""
	}
}

// decodeArgs unmarshals and validates tool arguments. It returns a message
// for the model when they are unusable.
func decodeArgs(raw string, dst any) string {
	if strings.TrimSpace(raw) == "" {
		raw = "{}"
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return "Arguments are not valid JSON."
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return "Invalid or missing arguments: " + strings.Join(fields, ", ") + "."
		}
		return "Invalid arguments."
	}
	return ""
}
