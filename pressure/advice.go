package pressure

import (
	"context"
	"fmt"
	"math"
	"strings"

	"kiatsu-notification/api/groq"
	"kiatsu-notification/models"

	"go.uber.org/zap"
)

const adviceRain = `【雨天時の健康アドバイス】
☔ 湿度管理を心がける
🍵 温かい飲み物を摂る
🧘‍♀️ リラックスする時間を作る
💪 室内でストレッチを行う`

const adviceSnow = `【雪の日の健康アドバイス】
❄️ 転倒に注意する
🧣 防寒対策をしっかりと
🍲 温かい食事を心がける
🚶‍♂️ 無理な外出は控える`

const adviceCloudy = `【曇り空の健康アドバイス】
😊 ポジティブな気持ちを保つ
🚶‍♀️ 軽い運動を取り入れる
🥗 ビタミンDを意識した食事
💡 明るい照明で気分転換`

const adviceSunny = `【晴れの日の健康アドバイス】
☀️ 適切な日焼け対策を
💧 こまめな水分補給を
🏃‍♂️ 外での適度な運動を
🥗 新鮮な野菜・果物を摂る`

const adviceGeneric = `【一般的な健康アドバイス】
💧 水分をこまめに摂取する
🚶‍♀️ 適度な運動を心がける
😴 十分な睡眠をとる
🍎 バランスの良い食事を`

// Composer selects the health-advice block for a message: a generated text
// when the external tier is enabled and answers, otherwise one of five
// canned templates. The tier ordering is always the same; only the
// generated content varies.
type Composer struct {
	generator groq.AdviceGenerator
	enabled   bool
	logger    *zap.Logger
}

// NewComposer constructs a Composer. The generator tier runs only when
// enabled is true and generator is non-nil.
func NewComposer(generator groq.AdviceGenerator, enabled bool, logger *zap.Logger) *Composer {
	return &Composer{
		generator: generator,
		enabled:   enabled,
		logger:    logger,
	}
}

// Compose returns the advice block, titled and ready to append to a
// message. It makes at most one generation call and never fails: any
// generator error falls through to the canned tier.
func (c *Composer) Compose(ctx context.Context, request models.AdviceRequest) string {
	if c.enabled && c.generator != nil {
		text, err := c.generator.Generate(ctx, BuildAdvicePrompt(request))
		if err == nil {
			return "【健康アドバイス】\n" + text
		}
		c.logger.Warn("Advice generation failed, using canned advice", zap.Error(err))
	}
	return CannedAdvice(request.WeatherCondition)
}

// BuildAdvicePrompt embeds the pressure situation into the Japanese
// generation prompt. The requested output stays within ~300 characters.
func BuildAdvicePrompt(request models.AdviceRequest) string {
	changeDescription := ""
	if request.PressureChange24h != nil {
		change := *request.PressureChange24h
		switch {
		case change > 0:
			changeDescription = fmt.Sprintf("気圧は24時間で%.1fhPa上昇しています。", change)
		case change < 0:
			changeDescription = fmt.Sprintf("気圧は24時間で%.1fhPa下降しています。", math.Abs(change))
		default:
			changeDescription = "気圧は24時間で変化していません。"
		}
	}

	weatherInfo := ""
	if request.WeatherCondition != "" {
		weatherInfo = fmt.Sprintf("現在の天気: %s", request.WeatherCondition)
	}

	return fmt.Sprintf(`あなたは気象と健康の専門家です。以下の気象情報に基づいて、友人に対するように親しみやすく、会話的な健康アドバイスを提供してください。

🌞 現在の気圧は%.0fhPaです。%s
%s

以下の点を考慮した会話的なアドバイスを提供してください:
1. 気圧と天気が人の体調に与える影響について簡潔に説明
2. この気象条件下での具体的な対策や予防法
3. 食事や運動に関する実用的なアドバイス
4. 気分を良くするための小さなヒント

回答は以下の形式で提供してください:
- タイトルは親しみやすく、今日の気象条件を反映したものにする
- 最初に短い挨拶と現在の気象状況の詳細な説明
- 2〜3個の具体的なアドバイスを箇条書きで
- 各アドバイスの前に適切な絵文字を付ける
- 最後に前向きな一言で締めくくる

全体の長さは300文字以内に収めてください。親しみやすく、会話的な口調で書いてください。`,
		request.CurrentPressure, changeDescription, weatherInfo)
}

// CannedAdvice picks the fallback template by substring priority:
// rain, snow, cloudy, sunny, then the generic block. First match wins.
func CannedAdvice(weatherCondition string) string {
	condition := strings.ToLower(weatherCondition)
	switch {
	case strings.Contains(condition, "雨"):
		return adviceRain
	case strings.Contains(condition, "雪"):
		return adviceSnow
	case strings.Contains(condition, "曇"):
		return adviceCloudy
	case strings.Contains(condition, "晴"):
		return adviceSunny
	default:
		return adviceGeneric
	}
}
