package task

// defectNames maps DailyRework codes to their English display names. The
// reporting database only carries the code.
var defectNames = map[string]string{
	"D01": "Broken stitch",
	"D02": "Skipped stitch",
	"D03": "Open seam",
	"D04": "Raw edge",
	"D05": "Puckering",
	"D06": "Uneven stitch density",
	"D07": "Twisted seam",
	"D08": "Needle hole",
	"D09": "Pleated seam",
	"D10": "Wavy seam",
	"D11": "Uncut thread",
	"D12": "Oil stain",
	"D13": "Dirt stain",
	"D14": "Shading",
	"D15": "Color bleeding",
	"D16": "Fabric hole",
	"D17": "Slub",
	"D18": "Snagging",
	"D19": "Misaligned stripe",
	"D20": "Mismatched plaid",
	"D21": "Wrong label",
	"D22": "Missing label",
	"D23": "Crooked label",
	"D24": "Wrong size label",
	"D25": "Button defect",
	"D26": "Missing button",
	"D27": "Broken zipper",
	"D28": "Wavy zipper",
	"D29": "Zipper not smooth",
	"D30": "Snap defect",
	"D31": "Uneven hem",
	"D32": "High-low hem",
	"D33": "Uneven collar",
	"D34": "Uneven cuff",
	"D35": "Uneven pocket",
	"D36": "Misplaced pocket",
	"D37": "Uneven placket",
	"D38": "Incorrect measurement",
	"D39": "Poor pressing",
	"D40": "Burn mark",
	"D41": "Shiny mark",
	"D42": "Crease mark",
	"D43": "Embroidery defect",
	"D44": "Print defect",
}

func defectName(code string) string {
	if name, ok := defectNames[code]; ok {
		return name
	}
	return "Unknown defect"
}
