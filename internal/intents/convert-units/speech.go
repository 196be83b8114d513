package convertunits

import (
	"fmt"

	"unit-converter-skill/internal/common/locale"
	"unit-converter-skill/internal/conversion"
)

const (
	resultSpanish = "%s %s son aproximadamente %s %s"
	resultOther   = "%s %s are approximately %s %s"

	apologySpanish = "Lo siento, no puedo convertir de %s a %s. Por favor, intenta con otra unidad."
	apologyOther   = "I'm sorry, I can't convert from %s to %s. Please try with another unit."
)

func resultSpeech(class locale.Class, r *conversion.Result) string {
	return fmt.Sprintf(class.Pick(resultSpanish, resultOther),
		r.FormattedValue(), r.From, r.FormattedConverted(), r.To)
}

func apologySpeech(class locale.Class, from, to string) string {
	return fmt.Sprintf(class.Pick(apologySpanish, apologyOther), from, to)
}
