package service

import (
	"context"
	"strings"

	"github.com/fasalrakshak/backend/pkg/model"
)

// KeywordResponder answers from a fixed agronomy knowledge table without any
// network calls. It matches whole topic keys or individual key words against
// the lowercased question, so it works as an offline fallback responder.
type KeywordResponder struct{}

// NewKeywordResponder creates an offline knowledge-table responder
func NewKeywordResponder() *KeywordResponder {
	return &KeywordResponder{}
}

func (r *KeywordResponder) Respond(_ context.Context, question string) (string, error) {
	return lookupKnowledge(question), nil
}

// RespondWithImage cannot inspect images; it answers the text portion only.
func (r *KeywordResponder) RespondWithImage(_ context.Context, question string, _ model.InlineImage) (string, error) {
	return lookupKnowledge(question), nil
}

func lookupKnowledge(question string) string {
	lower := strings.ToLower(question)

	for _, topic := range knowledgeTopics {
		if strings.Contains(lower, topic.key) {
			return topic.response
		}
		for _, word := range strings.Fields(topic.key) {
			if strings.Contains(lower, word) {
				return topic.response
			}
		}
	}

	if strings.Contains(lower, "pest") || strings.Contains(lower, "insect") {
		return pestControlResponse
	}

	if strings.Contains(lower, "plant") || strings.Contains(lower, "grow") ||
		strings.Contains(lower, "crop") || strings.Contains(lower, "farming") {
		return topicMenuResponse
	}

	return defaultResponse
}

type knowledgeTopic struct {
	key      string
	response string
}

// knowledgeTopics is ordered; the first matching topic wins.
var knowledgeTopics = []knowledgeTopic{
	{
		key: "pathogens infect plants",
		response: `Plant pathogens infect plants through several common pathways:

1. Natural openings – Pathogens enter through stomata, lenticels, or hydathodes.
2. Wounds – Damage caused by insects, pruning, wind, or tools allows easy entry.
3. Soil contact – Fungi and bacteria in soil infect roots through root hairs.
4. Insect vectors – Aphids, whiteflies, and beetles transmit viruses and bacteria.
5. Water & air spread – Rain splash, irrigation, and wind spread spores.

Once inside, pathogens multiply, block nutrient flow, damage cells, and weaken plant defenses.

Would you like prevention or treatment methods?`,
	},
	{
		key: "tomato diseases",
		response: `Common tomato diseases include:

1. Early Blight (Alternaria solani)
   - Symptoms: Dark spots with concentric rings on lower leaves
   - Treatment: Chlorothalonil or Mancozeb fungicide
   - Prevention: Proper spacing and air circulation

2. Late Blight (Phytophthora infestans)
   - Symptoms: Water-soaked spots, white mold on undersides
   - Treatment: Metalaxyl-based fungicides immediately
   - Prevention: Avoid overhead watering, plant resistant varieties

3. Bacterial Wilt
   - Symptoms: Sudden wilting, no leaf yellowing
   - Treatment: Remove infected plants, sanitize tools
   - Prevention: Use disease-free seeds, crop rotation

Would you like details on any specific disease?`,
	},
	{
		key: "soil fertility",
		response: `To improve soil fertility organically:

1. Compost Addition
   - Add 2-3 inches of well-decomposed compost annually
   - Improves soil structure and nutrient content

2. Green Manure Crops
   - Plant legumes (clover, alfalfa) as cover crops
   - They fix nitrogen naturally in soil

3. Mulching
   - Use organic mulch (straw, leaves)
   - Retains moisture and adds nutrients

4. Vermicompost
   - Excellent source of nutrients and beneficial microbes
   - Apply 5-10 tons per hectare

5. Crop Rotation
   - Rotate heavy feeders with nitrogen-fixing crops
   - Prevents soil depletion

Would you like specific recommendations for your crop?`,
	},
	{
		key: "wheat planting",
		response: `Best time to plant wheat in India:

Rabi Season (Winter Wheat):
- Planting Time: Mid-October to Mid-November
- Harvest: March-April
- Regions: Northern plains, Central India
- Temperature: 10-15°C for germination, 21-26°C for growth

Recommended Varieties:
- Early maturing: HD 2967, PBW 343
- High yielding: DBW 187, HD 3086
- Drought resistant: Raj 4079, C 306

Planting Guidelines:
- Seed rate: 100-125 kg/hectare
- Depth: 4-5 cm
- Row spacing: 20-23 cm
- Irrigation: First at 20-25 days after sowing

Soil Requirements:
- pH: 6.0-7.5
- Well-drained loamy soil
- Good organic matter content

Need information about fertilizer schedule or disease management?`,
	},
	{
		key:      "aphid control",
		response: pestControlResponse,
	},
	{
		key: "fertilizer",
		response: `Fertilizer Recommendations:

NPK Basics:
- N (Nitrogen): Leaf growth, green color
- P (Phosphorus): Root development, flowering
- K (Potassium): Overall health, disease resistance

Common Fertilizer Schedules:

For Vegetables:
- Base: 10-10-10 NPK at planting
- Growth stage: Higher N (20-10-10)
- Flowering: Higher P (10-20-10)

For Cereals (Wheat/Rice):
- Basal: 50% N + 100% P + 100% K
- Top dressing: 25% N at tillering, 25% at flowering

Organic Alternatives:
- Compost: Balanced nutrients
- Bone meal: High phosphorus
- Blood meal: High nitrogen
- Wood ash: Potassium source

Application Tips:
- Soil test before application
- Apply in split doses
- Water after application
- Avoid over-fertilization

What crop are you growing? I can give specific recommendations.`,
	},
	{
		key: "irrigation",
		response: `Efficient Irrigation Methods:

1. Drip Irrigation:
- Water efficiency: 90-95%
- Best for: Vegetables, fruits
- Benefits: Reduces water waste, prevents leaf diseases
- Cost: Medium to high initial investment

2. Sprinkler System:
- Water efficiency: 70-80%
- Best for: Field crops, lawns
- Benefits: Uniform distribution
- Cost: Medium

3. Furrow Irrigation:
- Water efficiency: 50-60%
- Best for: Row crops
- Benefits: Low cost, traditional
- Cost: Low

Water Management Tips:
- Irrigate early morning or evening
- Check soil moisture (finger test)
- Mulch to reduce evaporation
- Collect rainwater

Smart Scheduling:
- Sandy soil: Frequent, light watering
- Clay soil: Infrequent, deep watering
- Monitor weather forecasts
- Adjust for crop stage

Would you like irrigation schedules for specific crops?`,
	},
}

const pestControlResponse = `Natural methods to control aphids:

1. Biological Control:
- Introduce ladybugs (eat 50-60 aphids/day)
- Lacewings and parasitic wasps
- Maintain beneficial insect habitats

2. Organic Sprays:
- Neem Oil: 5ml/liter water, spray weekly
- Soap Solution: 2 tablespoons mild soap/liter
- Garlic Spray: Crushed garlic in water, ferment 24hrs

3. Cultural Methods:
- Strong water spray to dislodge aphids
- Yellow sticky traps to catch winged aphids
- Remove heavily infested leaves

4. Companion Planting:
- Plant marigolds, nasturtiums (repel aphids)
- Herbs like mint, basil, rosemary

5. Homemade Remedies:
- Chili pepper spray
- Tobacco water (use cautiously)
- Tomato leaf spray

Prevention:
- Avoid over-fertilization (attracts aphids)
- Regular monitoring
- Maintain plant health

Which method would you like to try first?`

const topicMenuResponse = `I can help you with various agricultural topics:

• Plant diseases and their treatment
• Soil fertility management
• Irrigation techniques
• Fertilizer recommendations
• Pest control methods
• Crop planting schedules

What specific topic would you like to know about?`

const defaultResponse = `Thank you for your question! I specialize in:

• Plant disease identification and treatment
• Crop protection strategies
• Soil and fertilizer management
• Irrigation best practices
• Pest and disease control
• Agricultural tips and guidance

Could you please ask about a specific crop, disease, or farming practice? I'm here to help!`
