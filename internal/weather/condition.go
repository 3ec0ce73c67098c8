package weather

import (
	"strings"

	"github.com/i474232898/weather-dashboard/internal/common"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Kind normalizes the provider's condition. WeatherAPI codes are stable across
// languages, so the code wins; the text is only a fallback for unknown codes.
func (c ConditionInfo) Kind() Condition {
	if k := conditionFromCode(c.Code); k != ConditionUnknown {
		return k
	}
	return conditionFromText(c.Text)
}

func conditionFromCode(code int) Condition {
	switch code {
	case 1000:
		return ConditionClear
	case 1003, 1006, 1009:
		return ConditionCloudy
	case 1030, 1135, 1147:
		return ConditionMist
	case 1087, 1273, 1276, 1279, 1282:
		return ConditionStorm
	case 1063, 1072, 1150, 1153, 1168, 1171, 1180, 1183, 1186, 1189, 1192, 1195,
		1198, 1201, 1240, 1243, 1246:
		return ConditionRain
	case 1066, 1069, 1114, 1117, 1204, 1207, 1210, 1213, 1216, 1219, 1222, 1225,
		1237, 1249, 1252, 1255, 1258, 1261, 1264:
		return ConditionSnow
	default:
		return ConditionUnknown
	}
}

// conditionFromText matches English and Ukrainian provider texts.
func conditionFromText(text string) Condition {
	t := strings.ToLower(text)
	switch {
	case t == "":
		return ConditionUnknown
	case common.HasAny(t, "thunder", "storm", "гроз"):
		return ConditionStorm
	case common.HasAny(t, "snow", "sleet", "blizzard", "сніг", "хуртовин"):
		return ConditionSnow
	case common.HasAny(t, "rain", "shower", "drizzle", "дощ", "злива", "мряка"):
		return ConditionRain
	case common.HasAny(t, "mist", "fog", "туман", "серпанок"):
		return ConditionMist
	case common.HasAny(t, "cloud", "overcast", "хмарн", "пасмурно"):
		return ConditionCloudy
	case common.HasAny(t, "sunny", "clear", "сонячно", "ясно"):
		return ConditionClear
	default:
		return ConditionUnknown
	}
}
