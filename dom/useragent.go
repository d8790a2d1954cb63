package dom

// userAgentCSS is the built-in user-agent stylesheet. Defaults for 'display'
// are set by the cascade for every element.
const userAgentCSS = `
h1 { font-size: xx-large; font-weight: bold; margin-top: 0.67em; margin-bottom: 0.67em }
h2 { font-size: x-large; font-weight: bold; margin-top: 0.83em; margin-bottom: 0.83em }
h3 { font-size: large; font-weight: bold; margin-top: 1em; margin-bottom: 1em }
h4, h5, h6 { font-weight: bold }
p, blockquote, pre, ul, ol { margin-top: 1em; margin-bottom: 1em }
blockquote { margin-left: 40px; margin-right: 40px }
ul, ol { padding-left: 40px }
b, strong { font-weight: bold }
i, em { font-style: italic }
code, pre { font-family: monospace }
pre { white-space: pre }
a { color: blue; text-decoration-line: underline }
`
