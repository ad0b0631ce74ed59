package webservices

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/humanise"
	"github.com/jamesrr39/goutil/logpkg"
)

// UploadPageService serves a single page for trying out the API from a browser
type UploadPageService struct {
	logger         *logpkg.Logger
	apiURLBasePath string
	chi.Router
}

func NewUploadPageService(logger *logpkg.Logger, apiURLBasePath string) *UploadPageService {
	ups := &UploadPageService{logger, apiURLBasePath, chi.NewRouter()}

	ups.Router.Get("/", ups.handleGet)

	return ups
}

func (ups *UploadPageService) handleGet(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"APIURLBasePath": ups.apiURLBasePath,
		"MaxUploadSize":  humanise.HumaniseBytes(MAX_UPLOAD_BYTES),
		"ExportFormats":  exportFormats,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := uploadPageTmpl.Execute(w, data)
	if err != nil {
		errorsx.HTTPError(w, ups.logger, errorsx.Wrap(err), http.StatusInternalServerError)
		return
	}
}

var uploadPageTmpl *template.Template

func init() {
	var err error
	uploadPageTmpl, err = template.New("upload/index.html").Parse(uploadPageTemplate)
	if err != nil {
		panic(err)
	}
}

const uploadPageTemplate = `
<html>
	<head>
		<title>ownkml</title>
		<style type="text/css">
		div {
			margin: 10px;
			border: 1px solid grey;
			padding: 10px;
		}
		img {
			max-width: 100%;
		}
		</style>
		<script>

		function fileFormData(formEl) {
			return new FormData(formEl);
		}

		function parseFile(formEl) {
			fetch('/{{.APIURLBasePath}}/parse', {method: 'POST', body: fileFormData(formEl)})
				.then(resp => resp.ok ? resp.json() : resp.text().then(text => Promise.reject(text)))
				.then(data => {
					document.getElementById('summary').textContent = data.summary;
				})
				.catch(e => {
					console.error(e);
					alert('failed to parse file: ' + e);
				});

			fetch('/{{.APIURLBasePath}}/preview', {method: 'POST', body: fileFormData(formEl)})
				.then(resp => resp.ok ? resp.blob() : Promise.reject(resp.statusText))
				.then(blob => {
					document.getElementById('preview').src = URL.createObjectURL(blob);
				})
				.catch(e => console.error(e));
		}

		function exportFile(formEl, format) {
			fetch('/{{.APIURLBasePath}}/export?format=' + format, {method: 'POST', body: fileFormData(formEl)})
				.then(resp => resp.ok ? resp.blob() : resp.text().then(text => Promise.reject(text)))
				.then(blob => {
					const a = document.createElement('a');
					a.href = URL.createObjectURL(blob);
					a.download = 'export.' + format;
					a.click();
				})
				.catch(e => {
					console.error(e);
					alert('failed to export file: ' + e);
				});
		}
		</script>
	</head>
	<body>
		<h1>ownkml</h1>
		<div>
			<h2>Open a KML or KMZ file</h2>
			<form action="javascript:;" method="POST" enctype="multipart/form-data" onsubmit="parseFile(this)" name="uploadForm" id="uploadForm">
				<p>Maximum file size: {{.MaxUploadSize}}</p>
				<p>
					<label>
						KML or KMZ file
						<input type="file" name="file" accept=".kml,.kmz" />
					</label>
				</p>
				<input type="submit" value="Go!" />
			</form>
			{{range .ExportFormats}}
				<button onclick="exportFile(document.getElementById('uploadForm'), '{{.}}')">Export as {{.}}</button>
			{{end}}
		</div>

		<div>
			<h2>Summary</h2>
			<pre id="summary"></pre>
		</div>

		<div>
			<h2>Preview</h2>
			<img id="preview" />
		</div>
	</body>
</html>
`
