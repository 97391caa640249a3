package catalog

import (
	"github.com/felixgeelhaar/eduplay-console/internal/model"
	"github.com/felixgeelhaar/eduplay-console/internal/resource"
)

// EffectSchema is the form of the "send live effect" dialog.
var EffectSchema = resource.Schema{
	{Key: "effect_type", Label: "Effect Type", Kind: resource.KindChoice, Options: model.Options(model.EffectTypes()), Required: true, Default: string(model.EffectText)},
	{Key: "content", Label: "Content", Kind: resource.KindLongText, Required: true},
	{Key: "duration", Label: "Duration (ms)", Kind: resource.KindNumber, Default: "5000"},
}

// EffectFromDraft builds the live effect described by a completed draft.
func EffectFromDraft(userID string, d *resource.Draft) (model.LiveEffect, error) {
	payload, err := d.Payload()
	if err != nil {
		return model.LiveEffect{}, err
	}

	effectType, err := model.ParseEffectType(payload["effect_type"].(string))
	if err != nil {
		return model.LiveEffect{}, err
	}

	effect := model.LiveEffect{
		UserID:     userID,
		EffectType: effectType,
		Content:    payload["content"].(string),
		Duration:   model.DefaultEffectDuration,
	}
	if n, ok := payload["duration"].(int); ok && n > 0 {
		effect.Duration = n
	}
	return effect, nil
}
