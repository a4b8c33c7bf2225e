package pdf

// devanagariFamily is the font family name the Devanagari TTF is registered
// under in each document.
const devanagariFamily = "NotoSerifDevanagari"

// pageText holds every rendered string for one language of the report
type pageText struct {
	font           string
	title          string
	subtitle       string
	details        string
	analysis       string
	remedies       string
	disclaimer     string
	disclaimerText string
	qrText         string
	conf           string
	labels         [5]string // report ID, date, crop, disease, severity
	tableHead      [2]string
}

// translations maps language code to rendered text. The report always
// carries both pages, English first.
var translations = map[string]pageText{
	"en": {
		font:           "Arial",
		title:          "OFFICIAL PLANT DISEASE DETECTION REPORT",
		subtitle:       "AI-POWERED CROP HEALTH ANALYSIS - GOVERNMENT OF INDIA INITIATIVE",
		details:        "Report Details",
		analysis:       "Disease Analysis & Image",
		remedies:       "Recommended Actions",
		disclaimer:     "Official Disclaimer",
		disclaimerText: "This report is generated using AI analysis. Consult experts before major decisions.",
		qrText:         "Scan to verify report online",
		conf:           "Confidence Level",
		labels:         [5]string{"Report ID:", "Date:", "Crop:", "Disease:", "Severity:"},
		tableHead:      [2]string{"#", "Instruction Details"},
	},
	"hi": {
		font:           devanagariFamily,
		title:          "आधिकारिक पादप रोग पहचान रिपोर्ट",
		subtitle:       "एआई-संचालित फसल स्वास्थ्य विश्लेषण - भारत सरकार की एक पहल",
		details:        "रिपोर्ट का विस्तृत विवरण",
		analysis:       "रोग विश्लेषण और फसल की स्थिति",
		remedies:       "निवारक उपाय और अनुशंसित कदम",
		disclaimer:     "आधिकारिक अस्वीकरण",
		disclaimerText: "यह रिपोर्ट पूर्णतः एआई (कृत्रिम बुद्धिमत्ता) द्वारा तैयार की गई है। कोई भी महत्वपूर्ण निर्णय लेने से पहले कृपया कृषि विशेषज्ञों से परामर्श अवश्य लें।",
		qrText:         "सत्यापन हेतु स्कैन करें",
		conf:           "सटीकता का स्तर",
		labels:         [5]string{"रिपोर्ट संख्या:", "दिनांक:", "फसल का प्रकार:", "रोग की पहचान:", "गंभीरता:"},
		tableHead:      [2]string{"क्रम", "निवारक कदम / अनुशंसित निर्देश"},
	},
}

// pageOrder is the order language pages appear in the document
var pageOrder = []string{"en", "hi"}
