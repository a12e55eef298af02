// Package formdef loads form definitions from YAML documents.
//
//	prefix: signup
//	fields:
//	  - name: email
//	    type: email
//	    required: true
//	    attrs: {class: input}
//	  - name: plan
//	    type: choice
//	    choices: [free, pro]
package formdef
