package elastic

// indexMapping defines the address index schema. Email and the default flag
// are exact-match fields used by the demotion candidate query.
const indexMapping = `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 1
  },
  "mappings": {
    "properties": {
      "name":       { "type": "text" },
      "email":      { "type": "keyword" },
      "address":    { "type": "text" },
      "city":       { "type": "keyword" },
      "state":      { "type": "keyword" },
      "zip":        { "type": "keyword" },
      "default":    { "type": "boolean" },
      "created_at": { "type": "date" }
    }
  }
}`
