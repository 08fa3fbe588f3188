// Package manifest reads the JSON manifests of mini-program pages and
// components and extracts the components they declare.
//
// # Manifest Format
//
// Only the usingComponents object is of interest; every other key is ignored:
//
//	{
//	  "navigationBarTitleText": "Home",
//	  "usingComponents": {
//	    "btn": "../../components/button/button",
//	    "card": "/components/card"
//	  }
//	}
//
// Declaration order is kept, so resolving the same manifest twice yields the
// same reference order.
//
// # Usage
//
// Parse returns a classified result:
//
//	m, err := manifest.Parse(data)
//	if errors.Is(err, manifest.ErrInvalidFormat) {
//	    // malformed JSON
//	}
//
// The Reader methods never fail. Problems are reported to a domain.ErrorSink
// and an empty component list is returned instead:
//
//	reader := manifest.NewReader(afero.NewOsFs(), nil)
//	components := reader.ReadUsingComponentsFromFile("/src/components/card/index.json", errs)
//
// # Error Handling
//
// The package defines sentinel errors for Parse and Load:
//   - ErrInvalidFormat: content is not valid JSON
//   - ErrFileNotFound: manifest file does not exist
//
// The Reader reports domain.ManifestError values wrapping domain.ErrNotJSON
// and domain.ErrComponentNotExist.
package manifest
