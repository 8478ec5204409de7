package compression

import (
	"fmt"
	"strconv"
)

// BuildArgs returns the Ghostscript argument vector for req. The order is
// fixed and the input path is always the last argument.
func BuildArgs(req JobRequest) []string {
	dpi := strconv.Itoa(req.DPI)

	return []string{
		"-dBATCH",
		"-dNOPAUSE",
		"-dCompatibilityLevel=" + CompatibilityLevel,
		fmt.Sprintf("-dPDFSETTINGS=/%s", req.Preset),
		"-dCompressFonts=true",
		"-dEmbedAllFonts=true",
		"-dSubsetFonts=true",
		"-dColorImageResolution=" + dpi,
		"-dGrayImageResolution=" + dpi,
		"-dMonoImageResolution=" + dpi,
		"-r" + dpi,
		"-sDEVICE=pdfwrite",
		"-sOutputFile=" + req.OutputPath,
		req.InputPath,
	}
}
