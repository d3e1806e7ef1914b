package elastic

// indexMapping defines the product index schema.
const indexMapping = `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 1,
    "analysis": {
      "analyzer": {
        "product_text": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase", "asciifolding"]
        }
      }
    }
  },
  "mappings": {
    "properties": {
      "id":          { "type": "keyword" },
      "slug":        { "type": "keyword" },
      "name":        { "type": "text", "analyzer": "product_text" },
      "description": { "type": "text", "analyzer": "product_text" },
      "price":       { "type": "double" },
      "image_url":   { "type": "keyword", "index": false },
      "in_stock":    { "type": "boolean" },
      "created_at":  { "type": "date" }
    }
  }
}`
